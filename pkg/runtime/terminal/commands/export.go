package commands

import (
	"fmt"

	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	output string
	svc    report.Service
	fs     afero.Fs
}

func newReportExportCmd(svc report.Service, fs afero.Fs) *cobra.Command {
	ec := &ExportCmd{svc: svc, fs: fs}
	cmd := &cobra.Command{
		Use:   "export <report-id>",
		Short: "Render a report to PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "Output file (defaults to report-<id>.pdf)")
	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	id := args[0]
	out, err := ec.svc.ExportPDF(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	return writeOutput(cmd, ec.fs, ec.output, fmt.Sprintf("report-%s.pdf", id), out)
}

type ExportJSONCmd struct {
	output string
	svc    report.Service
	fs     afero.Fs
}

func newReportExportJSONCmd(svc report.Service, fs afero.Fs) *cobra.Command {
	ec := &ExportJSONCmd{svc: svc, fs: fs}
	cmd := &cobra.Command{
		Use:   "export-json <report-id>",
		Short: "Write a report's structured representation",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "Output file (defaults to report-<id>.json)")
	return cmd
}

func (ec *ExportJSONCmd) run(cmd *cobra.Command, args []string) error {
	id := args[0]
	out, err := ec.svc.ExportJSON(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	return writeOutput(cmd, ec.fs, ec.output, fmt.Sprintf("report-%s.json", id), out)
}

func newReportImportCmd(svc report.Service, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Create a new report from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return fmt.Errorf("failed to read report file: %w", err)
			}
			r, err := svc.ImportJSON(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("failed to import report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported report %s (%s)\n", r.ID, r.Name)
			return nil
		},
	}
}

func newReportCoverCmd(svc report.Service, fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "cover <report-id> <image>",
		Short: "Upload the cover page image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fs.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open cover image: %w", err)
			}
			defer f.Close()

			ref, err := svc.UploadCover(cmd.Context(), args[0], args[1], f)
			if err != nil {
				return fmt.Errorf("failed to upload cover: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cover stored at %s\n", ref)
			return nil
		},
	}
}

func writeOutput(cmd *cobra.Command, fs afero.Fs, path, fallback string, data []byte) error {
	if path == "" {
		path = fallback
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}
