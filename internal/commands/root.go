package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folioconv/folioconv/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "folioconv",
		Short:   "Convert brokerage CSV exports for portfolio import",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newBatchCommand())

	return rootCmd
}
