package terminal

import (
	"sort"

	"github.com/lisquant/valuation/internal/domain/marketdata"
)

// batchFields splits field mnemonics into sorted, de-duplicated chunks of at
// most size fields, matching the gateway's per-request limit.
func batchFields(fields []marketdata.FieldCode, size int) [][]marketdata.FieldCode {
	seen := make(map[marketdata.FieldCode]bool, len(fields))
	unique := make([]marketdata.FieldCode, 0, len(fields))
	for _, f := range fields {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		unique = append(unique, f)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	var batches [][]marketdata.FieldCode
	for start := 0; start < len(unique); start += size {
		end := start + size
		if end > len(unique) {
			end = len(unique)
		}
		batches = append(batches, unique[start:end])
	}
	return batches
}
