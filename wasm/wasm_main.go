//go:build js && wasm

// ==============================================================================================
// FILE: wasm/wasm_main.go
// BUILD: GOOS=js GOARCH=wasm go build -o main.wasm ./wasm
// ==============================================================================================
package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/Bluewraith04/dust/diag"
	"github.com/Bluewraith04/dust/evaluator"
	"github.com/Bluewraith04/dust/object"
	"github.com/Bluewraith04/dust/parser"
)

func main() {
	// Keep the Go WASM runtime alive for callbacks.
	c := make(chan struct{})

	js.Global().Set("runDust", js.FuncOf(runCode))

	fmt.Println("Dust WASM Engine Loaded.")
	<-c
}

// runCode is the bridge between JS and Go: it runs one source string through
// the full pipeline and returns captured print output plus the final value.
func runCode(this js.Value, p []js.Value) interface{} {
	code := p[0].String()

	program, err := parser.Parse(code)
	if err != nil {
		return map[string]interface{}{
			"error": []interface{}{diag.Format(err)},
		}
	}

	// print() writes into this buffer instead of stdout.
	var output strings.Builder
	interp := evaluator.NewWithOutput(&output)

	var last object.Object
	for _, item := range program.Statements {
		result, err := interp.EvalItem(item)
		if err != nil {
			return map[string]interface{}{
				"error": []interface{}{diag.Format(err)},
				"logs":  output.String(),
			}
		}
		last = result
	}

	finalResult := ""
	if last != nil && last != object.NULL {
		finalResult = last.Inspect()
	}
	return map[string]interface{}{
		"logs":   output.String(),
		"result": finalResult,
	}
}
