package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/de-tools/costseg/pkg/services/compose"
	"github.com/de-tools/costseg/pkg/services/sections"
	"github.com/de-tools/costseg/pkg/services/totals"
)

type TableConfig struct {
	CategoryWidth    int
	DescriptionWidth int
	QtyWidth         int
	AmountWidth      int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CategoryWidth:    12,
		DescriptionWidth: 32,
		QtyWidth:         10,
		AmountWidth:      16,
	}
}

// Reporter prints a text summary of a report: property facts, enabled
// sections, the line item ledger and its totals.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type summary struct {
	Report   domain.Report
	Sections []domain.Section
	Totals   totals.Totals
}

func (c *Reporter) Handle(report domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(category, description string, qty interface{}, amount string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %*s |",
				c.config.CategoryWidth, category,
				c.config.DescriptionWidth, truncate(description, c.config.DescriptionWidth),
				c.config.QtyWidth, qty,
				c.config.AmountWidth, amount)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.CategoryWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2),
				strings.Repeat("-", c.config.QtyWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2))
		},
		"currency": compose.FormatCurrency,
		"field": func(r domain.Report, key string) string {
			if v := r.Field(key); v != "" {
				return v
			}
			return "-"
		},
	}

	tmpl := `
{{.Report.Name}} ({{.Report.ID}})
Template: {{.Report.TemplateID}}
Updated: {{.Report.UpdatedAt.Format "2006-01-02 15:04:05"}}
Owner: {{field .Report "owner"}}
Address: {{field .Report "address"}}

=== Sections ===
{{range .Sections}}- {{.Label}}
{{end}}
=== Line Items ===
{{separator}}
{{formatRow "Category" "Description" "Qty" "Total"}}
{{separator}}
{{range .Report.LineItems}}{{formatRow .Category .Description .Qty (currency .EffectiveTotal)}}
{{end}}{{separator}}
{{range .Totals.Categories}}{{formatRow .Category "Subtotal" "" (currency .Amount)}}
{{end}}{{formatRow "" "Grand Total" "" (currency .Totals.Grand)}}
{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary{
		Report:   report,
		Sections: sections.Enabled(report.Sections),
		Totals:   totals.Compute(report.LineItems),
	})
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
