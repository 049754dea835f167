package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrNotFound = errors.New("asset not found")

// Store keeps template PDFs and cover images. Put returns the reference that
// is persisted on the template or report and later passed to Open.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) ([]byte, error)
}

const (
	TemplatesDir = "templates"
	CoversDir    = "covers"
)

func TemplateName(id string) string {
	return path.Join(TemplatesDir, id+".pdf")
}

// CoverName builds "<reportId>-cover<ext>" under the covers directory. ext
// falls back to .jpg when the upload had none.
func CoverName(reportID, ext string) string {
	if ext == "" {
		ext = ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(CoversDir, reportID+"-cover"+strings.ToLower(ext))
}

func cleanName(name string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." || cleaned == "" || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return cleaned, nil
}
