package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ppiankov/stratsearch/internal/model"
)

func testRecords(pairs ...string) []*model.StrategyRecord {
	var out []*model.StrategyRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.NewStrategyRecord(pairs[i], pairs[i+1]))
	}
	return out
}

func TestTerminalApprover_ApproveFocus(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFocus string
		wantOK    bool
	}{
		{"accept", "y\n", "Rail plans", true},
		{"accept yes uppercase", "YES\n", "Rail plans", true},
		{"retry then accept", "maybe\ny\n", "Rail plans", true},
		{"manual override", "n\nBus rapid transit in Latin America\n", "Bus rapid transit in Latin America", true},
		{"decline blank override", "n\n\n", "", false},
		{"end of input", "", "", false},
		{"override without newline", "no\nCycling", "Cycling", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			a := NewTerminalApprover(strings.NewReader(tt.input), &out)

			focus, ok, err := a.ApproveFocus(context.Background(), "Rail plans")
			if err != nil {
				t.Fatalf("ApproveFocus() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK && focus != tt.wantFocus {
				t.Errorf("focus = %q, want %q", focus, tt.wantFocus)
			}
			if !strings.Contains(out.String(), "Rail plans") {
				t.Error("Expected the proposed focus to be shown")
			}
		})
	}
}

func TestTerminalApprover_ApproveFocus_RepeatsInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	a := NewTerminalApprover(strings.NewReader("sure\nok\ny\n"), &out)

	if _, ok, _ := a.ApproveFocus(context.Background(), "f"); !ok {
		t.Fatal("Expected approval")
	}
	if n := strings.Count(out.String(), "Please answer y or n."); n != 2 {
		t.Errorf("Expected 2 retry hints, got %d", n)
	}
}

func TestTerminalApprover_ReviewStrategies(t *testing.T) {
	records := testRecords("Germany", "Mobility Plan", "Japan", "Rail Vision", "France", "Loi d'orientation")

	var out bytes.Buffer
	a := NewTerminalApprover(strings.NewReader("2, x, 9\ny\n"), &out)

	got, ok, err := a.ReviewStrategies(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Expected approval")
	}
	if len(got) != 2 || got[0].Country != "Germany" || got[1].Country != "France" {
		t.Errorf("Unexpected records after removal: %v", labels(got))
	}
	if len(records) != 3 {
		t.Error("input slice must not be modified")
	}

	text := out.String()
	if !strings.Contains(text, " 2. Japan – Rail Vision") {
		t.Errorf("Expected numbered list, got:\n%s", text)
	}
	if !strings.Contains(text, "Final strategy list") {
		t.Error("Expected the final list after removal")
	}
}

func TestTerminalApprover_ReviewStrategies_KeepAllAndDecline(t *testing.T) {
	records := testRecords("Germany", "Mobility Plan")
	a := NewTerminalApprover(strings.NewReader("\nn\n"), &bytes.Buffer{})

	got, ok, err := a.ReviewStrategies(context.Background(), records)
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want decline", ok, err)
	}
	if len(got) != 1 {
		t.Errorf("Expected records unchanged, got %d", len(got))
	}
}

func TestTerminalApprover_ReviewStrategies_RemoveAll(t *testing.T) {
	records := testRecords("Germany", "Mobility Plan", "Japan", "Rail Vision")
	var out bytes.Buffer
	a := NewTerminalApprover(strings.NewReader("1,2\n"), &out)

	got, ok, err := a.ReviewStrategies(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if ok || len(got) != 0 {
		t.Errorf("got ok=%v with %d records, want halt with none", ok, len(got))
	}
	if !strings.Contains(out.String(), "No strategies left") {
		t.Error("Expected a notice that nothing is left")
	}
}

func TestTerminalApprover_ApproveLinks(t *testing.T) {
	records := testRecords("Germany", "Mobility Plan")
	records[0].PrimaryLink = "https://bmdv.bund.de/plan.pdf"

	var out bytes.Buffer
	a := NewTerminalApprover(strings.NewReader("y\n"), &out)

	if _, ok, err := a.ApproveLinks(context.Background(), records); err != nil || !ok {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
	if !strings.Contains(out.String(), "- Germany: https://bmdv.bund.de/plan.pdf") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

func TestTerminalApprover_ApproveExport(t *testing.T) {
	records := testRecords("Germany", "Mobility Plan", "Testland", "Test Plan")
	records[0].SummarySentences = []model.SummarySentence{
		{Sentence: "a", Status: model.StatusVerified},
		{Sentence: "b", Status: model.StatusNotVerified},
	}

	var out bytes.Buffer
	a := NewTerminalApprover(strings.NewReader("n\n"), &out)

	_, ok, err := a.ApproveExport(context.Background(), records)
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want decline", ok, err)
	}
	text := out.String()
	for _, want := range []string{
		"Germany – Mobility Plan: Not verified, Verified",
		"Testland – Test Plan: unknown",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestTerminalApprover_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewTerminalApprover(strings.NewReader("y\n"), &bytes.Buffer{})
	if _, _, err := a.ApproveFocus(ctx, "f"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func labels(records []*model.StrategyRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label()
	}
	return out
}
