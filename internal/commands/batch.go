package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/folioconv/folioconv/internal/batch"
	"github.com/folioconv/folioconv/internal/converter"
	"github.com/folioconv/folioconv/internal/export"
	"github.com/folioconv/folioconv/internal/runlog"
)

func newBatchCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Convert every export in <dir>/import/",
		Long: `Convert every CSV in <dir>/import/, auto-detecting each file's format.
Converted output goes to <dir>/converted/, inputs move to
<dir>/import/processed/, and each run is recorded in
<dir>/logs/convert-log.csv.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runBatch(cmd.OutOrStdout(), cmd.ErrOrStderr(), absDir, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to folioconv.yaml")

	return cmd
}

func runBatch(out, errw io.Writer, root, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	reg := converter.NewDefaultRegistry(cfg)

	files, err := batch.Scan(root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "no CSV files in import/")
		return nil
	}

	var entries []runlog.Entry
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}

		conv, err := reg.Detect(data)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}

		res, err := conv.Convert(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(errw, "warning: %s: %s\n", f.Name, w)
		}

		outPath, err := batch.OutputPath(root, f.Name)
		if err != nil {
			return err
		}
		of, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		if err := export.Write(of, res.Transactions); err != nil {
			of.Close()
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		if err := of.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", outPath, err)
		}

		if err := batch.MarkProcessed(root, f.Name); err != nil {
			return err
		}

		entries = append(entries, runlog.Entry{
			Timestamp: time.Now(),
			Format:    conv.Format(),
			Input:     f.Name,
			Rows:      len(res.Transactions),
			Skipped:   res.Skipped,
		})
		fmt.Fprintf(out, "converted %s: %d rows (%s)\n", f.Name, len(res.Transactions), conv.Format())
	}

	if err := runlog.Append(root, entries); err != nil {
		fmt.Fprintf(errw, "warning: failed to write convert log: %v\n", err)
	}
	return nil
}
