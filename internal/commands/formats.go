package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folioconv/folioconv/internal/config"
	"github.com/folioconv/folioconv/internal/converter"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := converter.NewDefaultRegistry(config.Default())
			for _, c := range reg.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", c.Format(), c.Description())
			}
			return nil
		},
	}
}
