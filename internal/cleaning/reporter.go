package cleaning

import (
	"github.com/a7med3yad/DataProject/domain/market"
)

// Report holds the data-cleaning diagnostics shown alongside the dataset.
type Report struct {
	DuplicateCount int `json:"duplicate_count"`
	MissingCount   int `json:"missing_count"`
}

// Analyze computes the cleaning diagnostics for a record set.
//
// DuplicateCount counts rows that exactly repeat an earlier row, evaluated
// after dropping rows with any missing field. MissingCount counts missing
// field values over the original, non-deduplicated set. Downstream analysis
// deliberately keeps consuming the raw records; this report is informational
// only.
func Analyze(records []market.Record) Report {
	report := Report{}

	seen := make(map[string]bool, len(records))
	for _, record := range records {
		report.MissingCount += record.MissingFieldCount()

		if !record.Complete() {
			continue
		}
		key := record.Key()
		if seen[key] {
			report.DuplicateCount++
		} else {
			seen[key] = true
		}
	}

	return report
}
