// File: cmd/ask.go
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/repomind-cli/internal/engine"
	"github.com/xkilldash9x/repomind-cli/internal/observability"
)

// newAskCmd creates the `ask` command: ingest, analyze, generate.
func newAskCmd() *cobra.Command {
	var backendID string

	askCmd := &cobra.Command{
		Use:   "ask <path|url> <question>",
		Short: "Ask a natural-language question about a repository",
		Long: `Ask builds a snapshot of the repository (a local directory or a remote git
URL), runs the heuristic analyzers, and answers the question through the
backend fallback chain. The answer names the model that produced it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			source, question := args[0], args[1]

			components, err := initializeComponents(loadedConfig, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown(logger)

			if backendID != "" {
				if err := components.Engine.Initialize(ctx, backendID); err != nil {
					return fmt.Errorf("failed to select backend %q: %w", backendID, err)
				}
			}

			repoCtx, err := components.Ingest.Build(ctx, source)
			if err != nil {
				return err
			}

			answer, _, err := components.Assistant.Answer(ctx, repoCtx, question)
			if err != nil {
				if errors.Is(err, engine.ErrAllBackendsFailed) {
					logger.Error("Every backend in the chain failed or refused",
						zap.String("question", question))
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	askCmd.Flags().StringVarP(&backendID, "backend", "b", "", "Backend to try first (fallback order still applies after it)")
	return askCmd
}
