package orderflow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Runner handles an interactive request loop over provided IO.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
}

// NewRunner creates a new Runner. Callers must set Input and Output
// (typically os.Stdin and os.Stdout) before calling Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads customer requests line by line and prints the engine's reply
// for each, until EOF or an "exit" command.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	reader := bufio.NewReader(r.Input)

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- orderflow ---")
		fmt.Fprintln(r.Output, "Type a request (e.g. \"Order 2 units of item_51 for customer_14\"), or \"exit\".")
	}

	for {
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		line, err := reader.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read input: %w", err)
		}

		request := strings.TrimSpace(line)
		if request == "" {
			continue
		}
		if strings.EqualFold(request, "exit") || strings.EqualFold(request, "quit") {
			return nil
		}

		reply, runErr := engine.Reply(ctx, request)
		if reply != "" {
			fmt.Fprintln(r.Output, reply)
		}
		if runErr != nil && reply == "" {
			fmt.Fprintf(r.Output, "Error: %v\n", runErr)
		}

		if err == io.EOF {
			return nil
		}
	}
}
