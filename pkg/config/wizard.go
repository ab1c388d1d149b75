package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"
)

// ErrWizardCancelled is returned when the user aborts the wizard with an
// empty confirmation, end-of-input, or an interrupt signal. It is a
// clean cancellation, not a failure; callers exit zero.
var ErrWizardCancelled = errors.New("configuration cancelled")

// RunWizard interactively collects the API settings and writes them to
// path. Existing values are offered as defaults, with the API key shown
// masked. The key is read without echo when in is a real terminal.
// Ctrl+C at any prompt cancels cleanly with ErrWizardCancelled.
func RunWizard(in io.Reader, out io.Writer, path string) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	return runWizard(in, out, path, interrupt)
}

func runWizard(in io.Reader, out io.Writer, path string, interrupt <-chan os.Signal) error {
	fmt.Fprintln(out, "chat-cli configuration")
	fmt.Fprintln(out, "----------------------")

	current, err := readEnvFile(path)
	if err != nil {
		fmt.Fprintf(out, "warning: could not read existing config: %v\n", err)
	}
	if len(current) > 0 {
		fmt.Fprintf(out, "Existing configuration found at %s\n", path)
	}
	fmt.Fprintln(out, "Press Enter to keep the current or default value.")
	fmt.Fprintln(out)

	p := &prompter{
		in:        in,
		out:       out,
		reader:    bufio.NewReader(in),
		interrupt: interrupt,
	}

	apiKey, err := p.promptValue(promptSpec{
		label:    "OpenAI API key",
		current:  current[KeyAPIKey],
		required: true,
		secret:   true,
	})
	if err != nil {
		return err
	}

	baseURL, err := p.promptValue(promptSpec{
		label:        "API base URL",
		current:      current[KeyBaseURL],
		defaultValue: DefaultBaseURL,
	})
	if err != nil {
		return err
	}

	model, err := p.promptValue(promptSpec{
		label:        "Model name",
		current:      current[KeyModel],
		defaultValue: DefaultModel,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s=%s\n", KeyAPIKey, MaskKey(apiKey))
	fmt.Fprintf(out, "  %s=%s\n", KeyBaseURL, baseURL)
	fmt.Fprintf(out, "  %s=%s\n", KeyModel, model)

	fmt.Fprint(out, "Save configuration? [y/N]: ")
	answer, err := p.readLine()
	if err != nil {
		return ErrWizardCancelled
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		return ErrWizardCancelled
	}

	values := map[string]string{
		KeyAPIKey:  apiKey,
		KeyBaseURL: baseURL,
		KeyModel:   model,
	}
	if err := WriteFile(path, values); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration saved to %s\n", path)
	return nil
}

// MaskKey hides the middle of a credential for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:4] + "..." + key[len(key)-4:]
}

type promptSpec struct {
	label        string
	current      string
	defaultValue string
	required     bool
	secret       bool
}

// prompter serializes reads from the wizard's input while staying
// responsive to an interrupt signal. Each read runs in its own
// goroutine so a pending Ctrl+C wins over a blocked terminal read.
type prompter struct {
	in        io.Reader
	out       io.Writer
	reader    *bufio.Reader
	interrupt <-chan os.Signal
}

func (p *prompter) promptValue(spec promptSpec) (string, error) {
	for {
		label := spec.label
		switch {
		case spec.current != "" && spec.secret:
			label += fmt.Sprintf(" (current: %s)", MaskKey(spec.current))
		case spec.current != "":
			label += fmt.Sprintf(" (current: %s)", spec.current)
		case spec.defaultValue != "":
			label += fmt.Sprintf(" (default: %s)", spec.defaultValue)
		}
		fmt.Fprintf(p.out, "%s: ", label)

		var value string
		var err error
		if spec.secret {
			value, err = p.readSecret()
		} else {
			value, err = p.readLine()
		}
		if err != nil {
			return "", ErrWizardCancelled
		}

		value = strings.TrimSpace(value)
		if value == "" {
			if spec.current != "" {
				return spec.current, nil
			}
			if spec.defaultValue != "" {
				return spec.defaultValue, nil
			}
			if spec.required {
				fmt.Fprintln(p.out, "This value is required.")
				continue
			}
		}
		return value, nil
	}
}

func (p *prompter) readLine() (string, error) {
	return p.await(func() (string, error) {
		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	})
}

// readSecret avoids echoing the API key on a real terminal; scripted
// input falls back to a plain line read. If an interrupt arrives while
// the terminal is in no-echo mode, its state is restored before
// returning.
func (p *prompter) readSecret() (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.readLine()
	}

	fd := int(f.Fd())
	state, err := term.GetState(fd)
	if err != nil {
		return p.readLine()
	}

	value, err := p.await(func() (string, error) {
		secret, err := term.ReadPassword(fd)
		return string(secret), err
	})
	if errors.Is(err, ErrWizardCancelled) {
		term.Restore(fd, state)
	}
	fmt.Fprintln(p.out)
	return value, err
}

type readResult struct {
	value string
	err   error
}

func (p *prompter) await(read func() (string, error)) (string, error) {
	results := make(chan readResult, 1)
	go func() {
		value, err := read()
		results <- readResult{value, err}
	}()
	select {
	case res := <-results:
		return res.value, res.err
	case <-p.interrupt:
		return "", ErrWizardCancelled
	}
}
