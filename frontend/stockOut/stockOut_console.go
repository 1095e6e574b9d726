package stockout

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const quitCommand = "/quit"

type consoleDisplay struct {
	out io.Writer
}

func (d consoleDisplay) StopScanner() {}

func (d consoleDisplay) ShowMessage(kind Kind, text string) {
	switch kind {
	case KindLoading:
		fmt.Fprintln(d.out, text)
	case KindSuccess:
		fmt.Fprintf(d.out, "OK: %s\n", text)
	default:
		fmt.Fprintf(d.out, "ERROR: %s\n", text)
	}
}

func (d consoleDisplay) ShowScanAgain() {
	fmt.Fprintln(d.out, "Press Enter to scan again.")
}

// RunConsole activates one barcode per flow. After a result, scans are
// ignored until an empty line starts the next flow.
func RunConsole(ctx context.Context, in io.Reader, out io.Writer, activator Activator, recorder Recorder) error {
	display := consoleDisplay{out: out}
	start := func() *Flow {
		fmt.Fprintln(out, "Stock out: scan a battery.")
		return NewFlow(FlowOptions{Activator: activator, Display: display, Recorder: recorder})
	}
	flow := start()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == quitCommand:
			return nil
		case line == "":
			if flow.Phase() == PhaseDone {
				flow = start()
				continue
			}
			flow.OnDecodeFailure(nil)
		default:
			flow.OnDecodeSuccess(ctx, line)
		}
	}
	return scanner.Err()
}
