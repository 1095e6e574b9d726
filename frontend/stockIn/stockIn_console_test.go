package stockin

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"scanstation/infrastructure/inventory"
)

func consoleFactory(sub Submitter) func(ListView, Page) *Session {
	return func(view ListView, page Page) *Session {
		return NewSession(Options{Submitter: sub, View: view, Page: page})
	}
}

func TestRunConsole_SubmitsDistinctScansAndStartsOver(t *testing.T) {
	sub := &fakeSubmitter{message: "Received 3 barcodes. Added 3 new batteries to stock."}
	in := strings.NewReader("A\nB\n\nA\nC\n/submit\nD\n/submit\n/quit\nE\n")
	out := new(strings.Builder)

	if err := RunConsole(context.Background(), in, out, ConsoleOptions{NewSession: consoleFactory(sub)}); err != nil {
		t.Fatalf("run console: %v", err)
	}
	calls := sub.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected two batches, got %v", calls)
	}
	if !reflect.DeepEqual(calls[0], []string{"A", "B", "C"}) || !reflect.DeepEqual(calls[1], []string{"D"}) {
		t.Fatalf("unexpected batches %v", calls)
	}

	text := out.String()
	if strings.Count(text, "Type /submit to submit the batch.") != 2 {
		t.Fatalf("submit hint should appear once per session:\n%s", text)
	}
	if strings.Count(text, "  + A\n") != 1 {
		t.Fatalf("A should be listed once:\n%s", text)
	}
	if !strings.Contains(text, "! Received 3 barcodes.") {
		t.Fatalf("server message not shown:\n%s", text)
	}
	if strings.Contains(text, "  + E") {
		t.Fatalf("input after quit must be ignored:\n%s", text)
	}
}

func TestRunConsole_FailureKeepsBatchForRetry(t *testing.T) {
	sub := &fakeSubmitter{err: &inventory.TransportError{Op: "stock-in", Err: errors.New("refused")}}
	in := strings.NewReader("A\n/submit\n/submit\n")
	out := new(strings.Builder)

	if err := RunConsole(context.Background(), in, out, ConsoleOptions{NewSession: consoleFactory(sub)}); err != nil {
		t.Fatalf("run console: %v", err)
	}
	calls := sub.Calls()
	if len(calls) != 2 || !reflect.DeepEqual(calls[1], []string{"A"}) {
		t.Fatalf("expected the same batch resent, got %v", calls)
	}
	if strings.Count(out.String(), "Stock in: scan barcodes.") != 1 {
		t.Fatalf("failure must not start a new session:\n%s", out.String())
	}
}

func TestRunConsole_EmptySubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	out := new(strings.Builder)
	if err := RunConsole(context.Background(), strings.NewReader("/submit\n"), out, ConsoleOptions{NewSession: consoleFactory(sub)}); err != nil {
		t.Fatalf("run console: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to submit yet.") {
		t.Fatalf("expected empty batch notice:\n%s", out.String())
	}
	if len(sub.Calls()) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestRunConsole_RequiresFactory(t *testing.T) {
	if err := RunConsole(context.Background(), strings.NewReader(""), new(strings.Builder), ConsoleOptions{}); err == nil {
		t.Fatalf("expected error without a session factory")
	}
}
