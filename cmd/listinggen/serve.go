package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sellerkit/listinggen/internal/auth"
	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/fetch"
	"github.com/sellerkit/listinggen/internal/llm"
	"github.com/sellerkit/listinggen/internal/pipeline"
	"github.com/sellerkit/listinggen/internal/server"
)

func serveCmd() *cobra.Command {
	var cfg config.Config
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the listing generation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(&cfg); err != nil {
				return err
			}
			if err := cfg.Validate(true); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	bindConfigFlags(cmd, &cfg)
	cmd.Flags().StringVar(&cfg.ListenAddr, "listen", "", "listen address (env LISTEN_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	srv := &server.Server{
		Pipeline: &pipeline.Pipeline{
			Generator: &llm.Generator{
				Client: llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL),
				Model:  cfg.LLMModel,
			},
			MaxTokens: cfg.MaxOutputTokens,
			Timeout:   cfg.GenTimeout,
			Logger:    log.Logger,
		},
		Fetcher: &fetch.Client{
			UserAgent:         "listinggen/" + version,
			MaxAttempts:       2,
			PerRequestTimeout: cfg.FetchTimeout,
			MaxBodyBytes:      int64(cfg.FetchMaxBytes),
		},
		Signer:         &auth.Signer{Secret: []byte(cfg.AuthSecret)},
		TokenTTL:       cfg.TokenTTL,
		DefaultProfile: cfg.DefaultProfile,
		GenTimeout:     cfg.GenTimeout,
		Logger:         log.Logger,
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("model", cfg.LLMModel).Msg("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
