// File: cmd/models.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/repomind-cli/internal/registry"
)

// newModelsCmd creates the `models` command, listing the backend catalogue in
// fallback order.
func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the generation backends in fallback order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, def := range registry.NewDefault().Models() {
				tag := ""
				if def.IsUncensored {
					tag = " [uncensored]"
				}
				fmt.Fprintf(out, "%d. %s (%s)%s\n", i+1, def.ID, def.BackendLibraryID, tag)
				fmt.Fprintf(out, "   %s\n", def.Description)
			}
			return nil
		},
	}
}
