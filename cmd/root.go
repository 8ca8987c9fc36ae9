// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/internal/config"
	"github.com/xkilldash9x/repomind-cli/internal/observability"
)

// loadedConfig is the configuration resolved by the root command's
// PersistentPreRunE. Subcommands read it instead of touching viper directly.
var loadedConfig *config.Config

// NewRootCommand builds a fresh root command tree. Each invocation gets its
// own instance so flags never leak between executions.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "repomind",
		Short: "Repomind answers natural-language questions about a code repository.",
		Long: `Repomind ingests a repository (local path or git URL), runs concurrent
heuristic analyzers over the snapshot, and answers questions through an
ordered fallback chain of LLM backends gated by a refusal/quality filter.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := initializeViper(cfgFile)
			if err != nil {
				return err
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				// Fall back to a minimal logger so the failure is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "repomind"})
				return err
			}
			loadedConfig = cfg

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting repomind", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml, then ~/.repomind/config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "repomind version %s\n" .Version}}`)

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI with the given signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// initializeViper wires the config file, environment and defaults in
// precedence order: flags > env > config file > defaults.
func initializeViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if dir, err := config.DefaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("REPOMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}
	return v, nil
}
