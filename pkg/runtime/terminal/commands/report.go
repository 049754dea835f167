package commands

import (
	"fmt"
	"strconv"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ReportLister is satisfied by the terminal reporter.
type ReportLister interface {
	HandleReports(reports []domain.Report) error
}

// SummaryReporter prints one report with its totals.
type SummaryReporter interface {
	Handle(report domain.Report) error
}

func NewReportCmd(svc report.Service, fs afero.Fs, lister ReportLister, summary SummaryReporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Create, edit and export cost segregation reports",
	}

	cmd.AddCommand(newReportCreateCmd(svc))
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List reports, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := svc.ListReports(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}
			return lister.HandleReports(reports)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <report-id>",
		Short: "Print a report summary with line items and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := svc.GetReport(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load report: %w", err)
			}
			return summary.Handle(r)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-field <report-id> <field> <value>",
		Short: "Set a property field such as owner or address",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := svc.SetField(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return fmt.Errorf("failed to set field: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s on report %s\n", args[1], args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-narrative <report-id> <key> <text>",
		Short: "Set a narrative block such as summary or methodology",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := svc.SetNarrative(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return fmt.Errorf("failed to set narrative: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s narrative on report %s\n", args[1], args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <report-id> <section> <on|off>",
		Short: "Enable or disable a report section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[2])
			if err != nil {
				return err
			}
			if _, err := svc.ToggleSection(cmd.Context(), args[0], domain.SectionKey(args[1]), enabled); err != nil {
				return fmt.Errorf("failed to toggle section: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Section %s is now %s\n", args[1], args[2])
			return nil
		},
	})
	cmd.AddCommand(newReportCoverCmd(svc, fs))
	cmd.AddCommand(newReportExportCmd(svc, fs))
	cmd.AddCommand(newReportExportJSONCmd(svc, fs))
	cmd.AddCommand(newReportImportCmd(svc, fs))
	return cmd
}

type ReportCreateCmd struct {
	templateID string
	name       string
	svc        report.Service
}

func newReportCreateCmd(svc report.Service) *cobra.Command {
	rc := &ReportCreateCmd{svc: svc}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new report from a template",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.templateID, "template", "", "Template id to start from")
	cmd.Flags().StringVar(&rc.name, "name", "", "Report name (defaults to \"New Report <date>\")")

	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func (rc *ReportCreateCmd) run(cmd *cobra.Command, _ []string) error {
	r, err := rc.svc.CreateReport(cmd.Context(), rc.templateID, rc.name)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created report %s (%s)\n", r.ID, r.Name)
	return nil
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}
