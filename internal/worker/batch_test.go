package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/stratsearch/internal/model"
)

func testRecords(n int) []*model.StrategyRecord {
	records := make([]*model.StrategyRecord, n)
	for i := range records {
		records[i] = model.NewStrategyRecord(string(rune('A'+i))+"land", "Plan")
	}
	return records
}

func TestBatchProcessor_PreservesOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		records := testRecords(8)
		bp := NewBatchProcessor(workers)

		results := bp.Process(context.Background(), records, func(ctx context.Context, rec *model.StrategyRecord) error {
			// uneven latency so workers finish out of order
			time.Sleep(time.Duration(3-int(rec.Country[0])%3) * time.Millisecond)
			rec.PrimaryLink = "https://" + strings.ToLower(rec.Country) + ".example/"
			return nil
		})

		if len(results) != len(records) {
			t.Fatalf("workers=%d: expected %d results, got %d", workers, len(records), len(results))
		}
		for i, r := range results {
			if r.Record != records[i] {
				t.Errorf("workers=%d: slot %d holds the wrong record", workers, i)
			}
			if r.Error != nil {
				t.Errorf("workers=%d: unexpected error %v", workers, r.Error)
			}
			want := "https://" + strings.ToLower(records[i].Country) + ".example/"
			if records[i].PrimaryLink != want {
				t.Errorf("workers=%d: record %d not enriched", workers, i)
			}
		}
	}
}

func TestBatchProcessor_IsolatesFailures(t *testing.T) {
	records := testRecords(4)
	bp := NewBatchProcessor(2)

	results := bp.Process(context.Background(), records, func(ctx context.Context, rec *model.StrategyRecord) error {
		switch rec.Country {
		case "Bland":
			return errors.New("search failed")
		case "Cland":
			panic("boom")
		}
		rec.RawText = "ok"
		return nil
	})

	var gotErrs []bool
	for _, r := range results {
		gotErrs = append(gotErrs, r.GetError() != nil)
	}
	if diff := cmp.Diff([]bool{false, true, true, false}, gotErrs); diff != "" {
		t.Errorf("error slots mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(results[2].Error.Error(), "panic: boom") {
		t.Errorf("expected recovered panic, got %v", results[2].Error)
	}
	if records[0].RawText != "ok" || records[3].RawText != "ok" {
		t.Error("expected siblings to be processed")
	}
}

func TestBatchProcessor_SequentialStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	records := testRecords(3)
	bp := NewBatchProcessor(1)

	var calls int32
	results := bp.Process(ctx, records, func(ctx context.Context, rec *model.StrategyRecord) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return nil
	})

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if !errors.Is(results[1].Error, context.Canceled) || !errors.Is(results[2].Error, context.Canceled) {
		t.Error("expected remaining records to report cancellation")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	bp := NewBatchProcessor(0)
	if bp.Concurrency() != 1 {
		t.Errorf("expected concurrency 1, got %d", bp.Concurrency())
	}
	results := bp.Process(context.Background(), nil, func(context.Context, *model.StrategyRecord) error { return nil })
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.txt")
	content := `# requests for this week
Rail strategies in Europe

Urban mobility plans in Asia
  Rail strategies in Europe
# trailing comment
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}

	want := []string{"Rail strategies in Europe", "Urban mobility plans in Asia"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLines_NonExistent(t *testing.T) {
	if _, err := ReadLines(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
