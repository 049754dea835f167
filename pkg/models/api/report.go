package api

import "time"

type Section struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FilePath  string    `json:"filePath"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineItem.TotalOverride is null when no manual total is set.
type LineItem struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Qty           float64  `json:"qty"`
	UnitCost      float64  `json:"unitCost"`
	TotalOverride *float64 `json:"totalOverride"`
}

// Report is both the HTTP body and the JSON export/import document.
type Report struct {
	ID             string            `json:"id"`
	TemplateID     string            `json:"templateId"`
	Name           string            `json:"name"`
	Fields         map[string]string `json:"fields"`
	Sections       []Section         `json:"sections"`
	Narrative      map[string]string `json:"narrative"`
	LineItems      []LineItem        `json:"lineItems"`
	CoverImagePath string            `json:"coverImagePath"`
	Photos         []string          `json:"photos"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type CreateReportRequest struct {
	Name string `json:"name"`
}

type CoverResponse struct {
	CoverImagePath string `json:"coverImagePath"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type Totals struct {
	Categories []CategoryTotal `json:"categories"`
	Grand      float64         `json:"grandTotal"`
}

type Error struct {
	Error string `json:"error"`
}

type FieldUpdate struct {
	Value string `json:"value"`
}

type NarrativeUpdate struct {
	Text string `json:"text"`
}

type SectionToggle struct {
	Enabled bool `json:"enabled"`
}

// LineItemPatch changes only the attributes that are present. ClearOverride
// removes a manual total; it wins over TotalOverride.
type LineItemPatch struct {
	Category      *string  `json:"category,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Qty           *float64 `json:"qty,omitempty"`
	UnitCost      *float64 `json:"unitCost,omitempty"`
	TotalOverride *float64 `json:"totalOverride,omitempty"`
	ClearOverride bool     `json:"clearOverride,omitempty"`
}
