package commands

import (
	"fmt"
	"path/filepath"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// TemplateLister is satisfied by the terminal reporter.
type TemplateLister interface {
	HandleTemplates(templates []domain.Template) error
}

func NewTemplateCmd(svc report.Service, fs afero.Fs, lister TemplateLister) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage report templates",
	}

	cmd.AddCommand(newTemplateAddCmd(svc, fs))
	cmd.AddCommand(newTemplateListCmd(svc, lister))
	return cmd
}

type TemplateAddCmd struct {
	name string
	svc  report.Service
	fs   afero.Fs
}

func newTemplateAddCmd(svc report.Service, fs afero.Fs) *cobra.Command {
	tc := &TemplateAddCmd{svc: svc, fs: fs}
	cmd := &cobra.Command{
		Use:   "add <file.pdf>",
		Short: "Register a PDF as a report template",
		Args:  cobra.ExactArgs(1),
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.name, "name", "", "Template name (defaults to the file name)")
	return cmd
}

func (tc *TemplateAddCmd) run(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := tc.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	name := tc.name
	if name == "" {
		name = filepath.Base(path)
	}

	tpl, err := tc.svc.CreateTemplate(cmd.Context(), name, f)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created template %s (%s)\n", tpl.ID, tpl.Name)
	return nil
}

func newTemplateListCmd(svc report.Service, lister TemplateLister) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates, err := svc.ListTemplates(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}
			return lister.HandleTemplates(templates)
		},
	}
}
