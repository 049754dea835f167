package adapters

import "github.com/de-tools/costseg/pkg/models/store"

func storeReport(doc string) store.Report {
	return store.Report{ID: "r1", Document: []byte(doc)}
}
