package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"chat_cli/pkg/ai"
	"chat_cli/pkg/config"
	"chat_cli/pkg/logging"
	"chat_cli/pkg/session"
	"chat_cli/pkg/ui"
	"chat_cli/pkg/version"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"
)

type options struct {
	Interactive   bool   `short:"i" long:"interactive" description:"Start an interactive multi-turn session"`
	System        string `short:"s" long:"system" description:"System prompt for the conversation"`
	Config        bool   `long:"config" description:"Run the configuration wizard and exit"`
	DisableStream bool   `long:"disable-stream" description:"Wait for the complete response instead of streaming"`
	SimpleStream  bool   `long:"simple-stream" description:"Stream as plain text without panel redraws"`
	Version       bool   `short:"v" long:"version" description:"Print version and exit"`

	Args struct {
		Message string `positional-arg-name:"message" description:"Message to send (omit with --interactive)"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[message] [options]"

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if opts.Version {
		fmt.Println(version.String())
		return 0
	}

	globalPath, err := config.GlobalConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if opts.Config {
		return runWizard(globalPath)
	}

	cfg, err := config.Resolve(globalPath, config.LocalEnvFile, os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if _, err := logging.Init(cfg); err != nil {
		// Logging is best-effort; the chat still works without it.
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}

	provider, err := ai.NewOpenAIProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, "Run 'chat-cli --config' to set up your API key.")
		}
		return 1
	}

	if !opts.Interactive && opts.Args.Message == "" {
		fmt.Println("Provide a message or use --interactive. See --help for usage.")
		return 0
	}

	renderer, mode := buildRenderer(opts.SimpleStream)
	slog.Info("session_start",
		"model", cfg.Model,
		"render_mode", mode.String(),
		"streaming", !opts.DisableStream,
		"interactive", opts.Interactive)

	driver := session.New(provider, cfg.Model, renderer, !opts.DisableStream, os.Stdin, os.Stdout)

	ctx := context.Background()
	if opts.Interactive {
		err = driver.RunInteractive(ctx, opts.System)
	} else {
		err = driver.RunOnce(ctx, opts.Args.Message, opts.System)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// buildRenderer picks the output strategy: a forced flag or an incapable
// terminal (including piped stdout) degrades to plain text.
func buildRenderer(forceSimple bool) (ui.StreamRenderer, ui.Mode) {
	stdoutFd := int(os.Stdout.Fd())
	if !term.IsTerminal(stdoutFd) {
		forceSimple = true
	}

	mode := ui.SelectMode(forceSimple, os.Getenv)
	if mode == ui.ModeSimple {
		return ui.NewSimpleRenderer(os.Stdout), mode
	}

	width, _, err := term.GetSize(stdoutFd)
	if err != nil {
		width = 0
	}
	return ui.NewRichRenderer(os.Stdout, width), mode
}

func runWizard(globalPath string) int {
	err := config.RunWizard(os.Stdin, os.Stdout, globalPath)
	if errors.Is(err, config.ErrWizardCancelled) {
		fmt.Println("Configuration cancelled.")
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Sanity-check what was just written.
	cfg, err := config.Resolve(globalPath, config.LocalEnvFile, os.Environ())
	if err == nil {
		_, err = ai.NewOpenAIProvider(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: saved configuration failed validation: %v\n", err)
		return 0
	}
	fmt.Println("Configuration OK. You can start chatting now.")
	return 0
}
