// File: cmd/analyze.go
package cmd

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/repomind-cli/api/schemas"
	"github.com/xkilldash9x/repomind-cli/internal/observability"
)

// newAnalyzeCmd creates the `analyze` command: heuristic reasoning only, no
// backend is ever loaded.
func newAnalyzeCmd() *cobra.Command {
	var (
		question   string
		jsonOutput bool
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze <path|url>",
		Short: "Run the heuristic analyzers over a repository and print the combined report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			components, err := initializeComponents(loadedConfig, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown(logger)

			repoCtx, err := components.Ingest.Build(ctx, args[0])
			if err != nil {
				return err
			}

			combined, err := components.Assistant.Analyze(ctx, repoCtx, question)
			if err != nil {
				return err
			}

			if jsonOutput {
				out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(combined, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), renderReport(combined))
			return nil
		},
	}

	analyzeCmd.Flags().StringVarP(&question, "question", "q", "what should I look at first?", "Question steering the analyzers' focus")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return analyzeCmd
}

// renderReport formats a combined report for the terminal.
func renderReport(combined schemas.CombinedReasoning) string {
	var sb strings.Builder
	sb.WriteString(combined.Summary)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Aggregated confidence: %.2f\n", combined.AggregatedConfidence)

	writeSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n")
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, item := range items {
			sb.WriteString("  - ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
	}
	writeSection("Security concerns", combined.SecurityConcerns)
	writeSection("Architecture insights", combined.ArchitectureInsights)
	writeSection("Code quality issues", combined.CodeQualityIssues)
	return sb.String()
}
