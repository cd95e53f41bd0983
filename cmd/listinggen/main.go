package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sellerkit/listinggen/internal/config"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "listinggen",
		Short:         "listinggen - Amazon marketplace listing generation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), generateCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("listinggen " + version)
		},
	}
}

// bindConfigFlags registers the flags shared by serve and generate onto cmd,
// bound into cfg. Zero/empty values mean "take environment, then defaults".
func bindConfigFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	f.StringVar(&cfg.LLMBaseURL, "llm-base-url", "", "generation backend base URL (env LLM_BASE_URL)")
	f.StringVar(&cfg.LLMModel, "llm-model", "", "generation model name (env LLM_MODEL)")
	f.StringVar(&cfg.DefaultProfile, "profile", "", "default constraint profile name (env PROFILE)")
	f.StringVar(&cfg.ProfilePath, "profile-file", "", "YAML constraint profile overrides (env PROFILE_FILE)")
	f.DurationVar(&cfg.GenTimeout, "gen-timeout", 0, "per-request generation deadline (env GEN_TIMEOUT)")
	f.IntVar(&cfg.MaxOutputTokens, "max-output-tokens", 0, "token cap per backend call (env MAX_OUTPUT_TOKENS)")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging (env VERBOSE)")
}

// resolveConfig layers environment and defaults under the flag values and
// applies side configuration (log level, profile overrides).
func resolveConfig(cfg *config.Config) error {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()
	config.ApplyEnvToConfig(cfg)

	def := config.Defaults()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = def.LLMModel
	}
	if cfg.GenTimeout == 0 {
		cfg.GenTimeout = def.GenTimeout
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = def.MaxOutputTokens
	}
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = def.DefaultProfile
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = def.TokenTTL
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.FetchMaxBytes == 0 {
		cfg.FetchMaxBytes = def.FetchMaxBytes
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cfg.ProfilePath != "" {
		if err := config.LoadProfileOverrides(cfg.ProfilePath); err != nil {
			return err
		}
	}
	return nil
}
