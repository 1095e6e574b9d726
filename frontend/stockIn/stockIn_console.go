package stockin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	DefaultSubmitCommand = "/submit"
	DefaultQuitCommand   = "/quit"
	placeholderText      = "No items scanned yet."
)

// ConsoleOptions configures RunConsole.
type ConsoleOptions struct {
	SubmitCommand string
	QuitCommand   string
	// NewSession builds a fresh session bound to the console view and page.
	NewSession func(view ListView, page Page) *Session
}

// console renders a session as lines of text. Keyboard-wedge scanners type
// each code followed by Enter, so every non-command line is a decode.
type console struct {
	out           io.Writer
	submitCommand string
	reloaded      bool
}

func (c *console) AppendItem(value string) {
	fmt.Fprintf(c.out, "  + %s\n", value)
}

func (c *console) RemovePlaceholder() {}

func (c *console) ShowSubmit() {
	fmt.Fprintf(c.out, "Type %s to submit the batch.\n", c.submitCommand)
}

func (c *console) SetSubmitState(enabled bool, label string) {
	if !enabled {
		fmt.Fprintln(c.out, label)
	}
}

func (c *console) Alert(message string) {
	fmt.Fprintf(c.out, "! %s\n", message)
}

func (c *console) Reload() {
	c.reloaded = true
}

// RunConsole reads scans from in until EOF, the quit command or ctx is done.
func RunConsole(ctx context.Context, in io.Reader, out io.Writer, opts ConsoleOptions) error {
	if opts.NewSession == nil {
		return errors.New("console: session factory is required")
	}
	if opts.SubmitCommand == "" {
		opts.SubmitCommand = DefaultSubmitCommand
	}
	if opts.QuitCommand == "" {
		opts.QuitCommand = DefaultQuitCommand
	}

	view := &console{out: out, submitCommand: opts.SubmitCommand}
	start := func() *Session {
		view.reloaded = false
		fmt.Fprintln(out, "Stock in: scan barcodes.")
		fmt.Fprintf(out, "  %s\n", placeholderText)
		return opts.NewSession(view, view)
	}
	sess := start()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			sess.Decoder().OnDecodeFailure(nil)
		case opts.QuitCommand:
			return nil
		case opts.SubmitCommand:
			if _, err := sess.Submit(ctx); err != nil {
				if errors.Is(err, ErrEmptyBatch) {
					fmt.Fprintln(out, "Nothing to submit yet.")
					continue
				}
				return err
			}
			if view.reloaded {
				sess = start()
			}
		default:
			sess.Decoder().OnDecodeSuccess(line)
		}
	}
	return scanner.Err()
}
