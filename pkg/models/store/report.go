package store

import "time"

type Template struct {
	ID         string
	Name       string
	SourcePath string
	Sections   []byte // JSON encoded []api.Section
	CreatedAt  time.Time
}

type Report struct {
	ID         string
	TemplateID string
	Name       string
	Document   []byte // JSON encoded api.Report
	UpdatedAt  time.Time
}
