// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface.
//          It accumulates lines until the BlockTracker reports a complete
//          submission, feeds them through the pipeline (Lexer->Parser->Evaluator)
//          and keeps the session environment alive between submissions.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Bluewraith04/dust/diag"
	"github.com/Bluewraith04/dust/evaluator"
	"github.com/Bluewraith04/dust/object"
	"github.com/Bluewraith04/dust/parser"
)

const banner = "Dust 0.1.0 REPL (type 'exit()' to quit)"

// Options configures the session prompts.
type Options struct {
	Prompt             string // shown when a fresh submission starts
	ContinuationPrompt string // shown while input is unbalanced
}

// DefaultOptions matches the classic session look.
func DefaultOptions() Options {
	return Options{Prompt: ">>> ", ContinuationPrompt: "... "}
}

// REPL is a line-based driver over one persistent interpreter instance.
type REPL struct {
	interp  *evaluator.Interpreter
	tracker *BlockTracker
	opts    Options

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// New creates a REPL reading from in, echoing results to out and diagnostics
// to errOut.
func New(in io.Reader, out, errOut io.Writer, opts Options) *REPL {
	return &REPL{
		interp:  evaluator.NewWithOutput(out),
		tracker: NewBlockTracker(),
		opts:    opts,
		in:      in,
		out:     out,
		errOut:  errOut,
	}
}

// Start runs the loop until exit() or end of input. A failed submission
// discards the buffered input and prompts again; the session environment
// survives.
func (r *REPL) Start() {
	scanner := bufio.NewScanner(r.in)
	var buf strings.Builder

	fmt.Fprintln(r.out, banner)

	for {
		if buf.Len() == 0 {
			fmt.Fprint(r.out, r.opts.Prompt)
		} else {
			fmt.Fprint(r.out, r.opts.ContinuationPrompt)
		}

		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return
		}
		line := scanner.Text()

		if strings.EqualFold(strings.TrimSpace(line), "exit()") {
			fmt.Fprintln(r.out, "Exiting Dust REPL...")
			return
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		if r.tracker.Unbalanced(buf.String()) {
			continue
		}

		code := buf.String()
		buf.Reset()
		if strings.TrimSpace(code) == "" {
			continue
		}
		r.evaluate(code)
	}
}

// evaluate parses one complete submission and evaluates its top-level items
// in order, echoing each non-null result.
func (r *REPL) evaluate(code string) {
	program, err := parser.Parse(code)
	if err != nil {
		fmt.Fprintln(r.errOut, diag.Format(err))
		return
	}
	if program == nil {
		return
	}

	for _, item := range program.Statements {
		result, err := r.interp.EvalItem(item)
		if err != nil {
			fmt.Fprintln(r.errOut, diag.Format(err))
			return
		}
		r.display(result)
	}
}

// display echoes a submission result. Null results (declarations, statements)
// stay silent, like the original session behavior.
func (r *REPL) display(result object.Object) {
	if result == nil || result == object.NULL {
		return
	}
	fmt.Fprintln(r.out, result.Inspect())
}
