package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/morselink"
	"github.com/aretw0/morselink/internal/config"
	"github.com/aretw0/morselink/internal/presentation/tui"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/ports"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ConfigPath string
	LogLevel   string // overrides log.level when set
	DryRun     bool
	Connect    bool // connect before reading the first line
	Quiet      bool

	In  *os.File
	Out io.Writer
}

// Execute handles the run command: it loads the configuration, wires the Messenger
// and drives an interactive session until EOF or a signal.
func Execute(opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	app, err := Build(cfg, BuildOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.Warn("Teardown incomplete", "err", cerr)
		}
	}()

	interactive := IsInteractive(opts.In)
	chatty := interactive && !opts.Quiet

	if chatty {
		tui.PrintBanner(opts.Out, morselink.Version)
		reportPermissions(opts.Out, cfg)
	}

	if opts.Connect && !opts.DryRun {
		if err := app.Messenger.Connect(ctx); err != nil {
			printSystemMessage(opts.Out, "%s", Explain(domain.Result{}, err))
		} else if chatty {
			announceConnected(opts.Out, app.Messenger.Status())
		}
	}

	sessionOpts := SessionOptions{
		In:     opts.In,
		Out:    opts.Out,
		DryRun: opts.DryRun,
		Prompt: chatty,
	}
	if interactive {
		sessionOpts.Render = tui.NewRenderer()
	}

	err = RunSession(ctx, app.Messenger, sessionOpts)

	if !opts.Quiet {
		switch sig := ctx.Signal(); {
		case sig == os.Interrupt:
			fmt.Fprintln(opts.Out, "[CTRL+C]")
			printSystemMessage(opts.Out, "Interrupted.")
		case sig != nil:
			printSystemMessage(opts.Out, "Terminated.")
		}
	}
	return err
}

// reportPermissions mirrors the host permission prompt: it lists what the link still lacks.
func reportPermissions(w io.Writer, cfg config.Config) {
	gate := NewGate(cfg)
	var missing []string
	for _, c := range ports.DefaultCapabilities {
		if !gate.Granted(c) {
			missing = append(missing, string(c))
		}
	}
	if len(missing) == 0 {
		printSystemMessage(w, "%s", Describe(KeyPermissionsGranted))
		return
	}
	printSystemMessage(w, "%s (missing %s)", Describe(domain.KeyLinkPermissionDenied), strings.Join(missing, ", "))
}
