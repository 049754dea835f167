package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/costseg/pkg/models/domain"
)

// Reporter prints template and report listings.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) HandleTemplates(templates []domain.Template) error {
	tmpl := `{{if not .}}No templates found.
{{end}}{{range .}}{{.ID}}  {{.Name}}  ({{.SourcePath}}, created {{.CreatedAt.Format "2006-01-02"}})
{{end}}`
	return c.execute("templates", tmpl, templates)
}

func (c *Reporter) HandleReports(reports []domain.Report) error {
	tmpl := `{{if not .}}No reports found.
{{end}}{{range .}}{{.ID}}  {{.Name}}  (template {{.TemplateID}}, {{len .LineItems}} line items, updated {{.UpdatedAt.Format "2006-01-02 15:04"}})
{{end}}`
	return c.execute("reports", tmpl, reports)
}

func (c *Reporter) execute(name, tmpl string, data any) error {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}
