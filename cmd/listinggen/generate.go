package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/export"
	"github.com/sellerkit/listinggen/internal/extract"
	"github.com/sellerkit/listinggen/internal/fetch"
	"github.com/sellerkit/listinggen/internal/llm"
	"github.com/sellerkit/listinggen/internal/pipeline"
)

func generateCmd() *cobra.Command {
	var cfg config.Config
	var (
		marketplace string
		brand       string
		brandVoice  string
		usp         string
		product     string
		productURL  string
		variants    int
		profileName string
		outPath     string
		pdfPath     string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one listing document and print or save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(&cfg); err != nil {
				return err
			}
			if err := cfg.Validate(false); err != nil {
				return err
			}
			if brand == "" {
				return errors.New("--brand is required")
			}
			if product == "" && productURL == "" {
				return errors.New("one of --product or --product-url is required")
			}

			name := profileName
			if name == "" {
				name = cfg.DefaultProfile
			}
			profile, ok := config.Profile(name)
			if !ok {
				return fmt.Errorf("unknown profile %q", name)
			}

			ctx := cmd.Context()
			productInfo := product
			if productInfo == "" {
				fetcher := &fetch.Client{
					UserAgent:         "listinggen/" + version,
					MaxAttempts:       2,
					PerRequestTimeout: cfg.FetchTimeout,
					MaxBodyBytes:      int64(cfg.FetchMaxBytes),
				}
				body, _, err := fetcher.Get(ctx, productURL)
				if err != nil {
					return fmt.Errorf("fetch product page: %w", err)
				}
				productInfo = extract.FromHTML(body).Render()
			}

			p := &pipeline.Pipeline{
				Generator: &llm.Generator{
					Client: llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL),
					Model:  cfg.LLMModel,
				},
				MaxTokens: cfg.MaxOutputTokens,
				Timeout:   cfg.GenTimeout,
				Logger:    log.Logger,
			}
			res, err := p.Run(ctx, pipeline.Request{
				Marketplace: marketplace,
				Brand:       brand,
				BrandVoice:  brandVoice,
				USPs:        usp,
				ProductInfo: productInfo,
				Variants:    variants,
				Profile:     profile,
			})
			if err != nil {
				return err
			}

			if !res.Complete() {
				log.Warn().Int("violations", len(res.Violations)).Msg("document is best-effort; constraints remain unmet")
				for _, v := range res.Violations {
					log.Warn().Msg(v.String())
				}
			}
			log.Info().Int("backend_calls", res.BackendCalls).Msg("generation finished")

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(res.Document), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			} else {
				fmt.Println(res.Document)
			}
			if pdfPath != "" {
				if err := export.WritePDF(res.Document, pdfPath); err != nil {
					return fmt.Errorf("write pdf: %w", err)
				}
			}
			return nil
		},
	}
	bindConfigFlags(cmd, &cfg)
	f := cmd.Flags()
	f.StringVar(&marketplace, "marketplace", "amazon.com", "target marketplace, e.g. amazon.de")
	f.StringVar(&brand, "brand", "", "brand name (required)")
	f.StringVar(&brandVoice, "brand-voice", "", "brand voice guidance")
	f.StringVar(&usp, "usp", "", "unique selling points")
	f.StringVar(&product, "product", "", "product information text")
	f.StringVar(&productURL, "product-url", "", "product page URL to fetch instead of --product")
	f.IntVar(&variants, "variants", 1, "variant count (1 or 3)")
	f.StringVar(&profileName, "constraint-profile", "", "constraint profile for this run")
	f.StringVar(&outPath, "out", "", "write the document to this file instead of stdout")
	f.StringVar(&pdfPath, "pdf", "", "also render the document to this PDF file")
	return cmd
}
