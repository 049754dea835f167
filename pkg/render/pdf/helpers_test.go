package pdf

import (
	"testing"
	"time"
)

func mustTime(t *testing.T) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, "2025-06-13T10:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return tm
}
