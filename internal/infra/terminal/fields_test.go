package terminal

import (
	"fmt"
	"testing"

	"github.com/lisquant/valuation/internal/domain/marketdata"
)

func TestBatchFields_ChunksAndDeduplicates(t *testing.T) {
	var fields []marketdata.FieldCode
	for i := 0; i < 30; i++ {
		fields = append(fields, marketdata.FieldCode(fmt.Sprintf("FIELD_%02d", i)))
	}
	// Duplicates and empties must vanish.
	fields = append(fields, "FIELD_00", "FIELD_05", "")

	batches := batchFields(fields, 25)
	if len(batches) != 2 {
		t.Fatalf("want 2 batches, got %d", len(batches))
	}
	if len(batches[0]) != 25 || len(batches[1]) != 5 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(batches[0]), len(batches[1]))
	}

	seen := make(map[marketdata.FieldCode]bool)
	for _, b := range batches {
		for _, f := range b {
			if seen[f] {
				t.Fatalf("field %s appears twice", f)
			}
			seen[f] = true
		}
	}
}

func TestBatchFields_Empty(t *testing.T) {
	if got := batchFields(nil, 25); got != nil {
		t.Fatalf("want nil for empty input, got %v", got)
	}
}
