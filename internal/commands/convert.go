package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/folioconv/folioconv/internal/config"
	"github.com/folioconv/folioconv/internal/converter"
	"github.com/folioconv/folioconv/internal/export"
)

func newConvertCommand() *cobra.Command {
	var format string
	var configPath string
	var passthrough bool

	cmd := &cobra.Command{
		Use:   "convert <input.csv>",
		Short: "Convert one export to the normalized import schema",
		Long: `Convert one institution CSV export to the normalized 5-column import
schema, written to standard output. The format is auto-detected from the
file's header unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], format, configPath, passthrough)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format (default: auto-detect)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to folioconv.yaml")
	cmd.Flags().BoolVar(&passthrough, "passthrough", false, "append source columns after the normalized ones")

	return cmd
}

func runConvert(out, errw io.Writer, path, format, configPath string, passthrough bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	reg := converter.NewDefaultRegistry(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	conv, err := pickConverter(reg, format, data)
	if err != nil {
		return err
	}

	res, err := conv.Convert(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(errw, "warning: %s\n", w)
	}

	if passthrough {
		return export.WritePassthrough(out, res.SourceHeader, res.Transactions)
	}
	return export.Write(out, res.Transactions)
}

func pickConverter(reg *converter.Registry, format string, data []byte) (converter.Converter, error) {
	if format == "" {
		return reg.Detect(data)
	}
	conv := reg.Get(format)
	if conv == nil {
		return nil, fmt.Errorf("unknown format %q; run 'folioconv formats' to list formats", format)
	}
	return conv, nil
}

// loadConfig loads the config at path, or folioconv.yaml in the working
// directory if present, or the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(config.FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
