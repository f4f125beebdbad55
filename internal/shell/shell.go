package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
)

// DefaultPrompt is printed before each line read by Run.
const DefaultPrompt = ">>> "

// Shell is an interactive JavaScript session with a pre-loaded context.
type Shell struct {
	vm     *goja.Runtime
	out    io.Writer
	prompt string
	names  []string
	mu     sync.Mutex
}

// New creates a shell exposing vars as globals. Go methods and fields are
// reachable under their lower-camel names (a.BundleNames → a.bundleNames).
func New(vars map[string]any, out io.Writer) (*Shell, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	s := &Shell{
		vm:     vm,
		out:    out,
		prompt: DefaultPrompt,
	}

	if err := s.setupGlobals(); err != nil {
		return nil, err
	}
	for name, v := range vars {
		if err := vm.Set(name, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// Names returns the pre-loaded names, sorted.
func (s *Shell) Names() []string {
	return append([]string(nil), s.names...)
}

// Eval runs src and returns its exported result. Cancelling ctx
// interrupts a running script.
func (s *Shell) Eval(ctx context.Context, src string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vm.ClearInterrupt()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := s.vm.RunString(src)
	if err != nil {
		return nil, err
	}
	return exportValue(val), nil
}

// Run reads lines from in and evaluates them until EOF, "exit" or ctx is
// done. Script errors are printed and do not end the session.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(s.out, "Shell context: %s\n", strings.Join(s.names, ", "))

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		result, err := s.Eval(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if result != nil {
			fmt.Fprintln(s.out, Format(result))
		}
	}
}

// Format renders a value for display: strings as-is, everything else as
// JSON when possible.
func Format(v any) string {
	if str, ok := v.(string); ok {
		return str
	}
	out, err := sonic.MarshalString(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return out
}

func (s *Shell) setupGlobals() error {
	console := s.vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error"} {
		if err := console.Set(level, s.printFunc()); err != nil {
			return err
		}
	}
	if err := s.vm.Set("console", console); err != nil {
		return err
	}
	if err := s.vm.Set("print", s.printFunc()); err != nil {
		return err
	}
	return s.vm.Set("names", func() []string { return s.Names() })
}

func (s *Shell) printFunc() func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		fmt.Fprintln(s.out, strings.Join(parts, " "))
		return goja.Undefined()
	}
}

func exportValue(val goja.Value) any {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}
