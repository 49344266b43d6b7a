package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/morselink/internal/presentation/tui"
	"github.com/aretw0/morselink/pkg/domain"
)

// Messenger is the part of morselink.Messenger the interactive session drives.
type Messenger interface {
	Translate(text string) domain.Result
	Transmit(ctx context.Context, text string) (domain.Result, error)
	Connect(ctx context.Context) error
	Status() domain.LinkStatus
}

// SessionOptions configures RunSession.
type SessionOptions struct {
	In  io.Reader
	Out io.Writer

	// DryRun translates lines without opening the link.
	DryRun bool

	// Prompt prints "> " before each line and announces link changes.
	Prompt bool

	// Render turns the markdown of :status into terminal output. Nil prints it raw.
	Render func(string) (string, error)
}

const sessionHelp = `Type text to translate and send it. Commands:
  :status   show the link state
  :connect  connect without sending
  :help     show this help
  :quit     leave the session`

// RunSession reads lines until EOF, :quit or cancellation and transmits each one.
// Per-line failures are reported on Out and do not end the session.
func RunSession(ctx context.Context, m Messenger, opts SessionOptions) error {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))

	for {
		if opts.Prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			err := scanner.Err()
			if opts.Prompt {
				fmt.Fprintln(out)
			}
			if err == nil || isInterrupted(err) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":quit", ":q", ":exit":
			return nil
		case ":help":
			fmt.Fprintln(out, sessionHelp)
			continue
		case ":status":
			printStatus(out, m.Status(), opts.Render)
			continue
		case ":connect":
			if err := m.Connect(ctx); err != nil {
				printSystemMessage(out, "%s", Explain(domain.Result{}, err))
			} else {
				announceConnected(out, m.Status())
			}
			continue
		}

		if err := handleLine(ctx, m, out, line, opts); errors.Is(err, domain.ErrSessionClosed) {
			return err
		}
	}
}

func handleLine(ctx context.Context, m Messenger, out io.Writer, line string, opts SessionOptions) error {
	var (
		res domain.Result
		err error
	)
	if opts.DryRun {
		res = m.Translate(line)
		err = res.Err()
	} else {
		wasConnected := m.Status().State == domain.LinkConnected
		res, err = m.Transmit(ctx, line)
		if opts.Prompt && !wasConnected && m.Status().State == domain.LinkConnected {
			announceConnected(out, m.Status())
		}
	}

	if res.Kind == domain.KindTranslated {
		fmt.Fprintln(out, res.Code)
	}
	if msg := Explain(res, err); msg != "" {
		printSystemMessage(out, "%s", msg)
	}
	return err
}

func announceConnected(w io.Writer, st domain.LinkStatus) {
	if st.Peer != "" {
		printSystemMessage(w, "Connected to %s!", st.Peer)
		return
	}
	printSystemMessage(w, "%s", Describe(KeyConnected))
}

func printStatus(w io.Writer, st domain.LinkStatus, render func(string) (string, error)) {
	md := tui.StatusMarkdown(st, Describe)
	if render != nil {
		if rendered, err := render(md); err == nil {
			md = rendered
		}
	}
	fmt.Fprint(w, md)
}
