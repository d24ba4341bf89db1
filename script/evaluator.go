// Package script runs bauble scripts and watches script files.
//
// Scripts are Elvish programs. Everything a script outputs, values and byte
// lines alike, is joined with newlines into the shader source. A script
// declares a time-dependent shader by defining a truthy global $animated:
//
//	var animated = $true
//	echo '//kage:unit pixels
//	package main
//	...'
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpaquim/bauble"
	"src.elv.sh/pkg/eval"
	"src.elv.sh/pkg/eval/vals"
	"src.elv.sh/pkg/parse"
)

// ErrNoOutput is reported when a script runs cleanly but outputs nothing.
var ErrNoOutput = errors.New("script produced no shader source")

// AnimatedVar is the global a script sets to mark its shader animated.
const AnimatedVar = "animated"

// Evaluator is a bauble.Evaluator backed by Elvish. Each call runs in a
// fresh interpreter, so scripts cannot leak state into later evaluations.
type Evaluator struct {
	// Name labels the code in error messages.
	Name string
}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{Name: "[bauble]"}
}

// EvaluateScript implements bauble.Evaluator.
func (e *Evaluator) EvaluateScript(code string) bauble.EvaluationResult {
	source, animated, err := e.run(code)
	if err != nil {
		return bauble.EvaluationResult{IsError: true, Error: err.Error()}
	}
	return bauble.EvaluationResult{ShaderSource: source, IsAnimated: animated}
}

func (e *Evaluator) run(code string) (string, bool, error) {
	ev := eval.NewEvaler()
	port, collect, err := eval.ValueCapturePort()
	if err != nil {
		return "", false, fmt.Errorf("capture output: %w", err)
	}
	evalErr := ev.Eval(parse.Source{Name: e.Name, Code: code},
		eval.EvalCfg{Ports: []*eval.Port{nil, port, nil}})
	outputs := collect()
	if evalErr != nil {
		return "", false, evalErr
	}
	if len(outputs) == 0 {
		return "", false, ErrNoOutput
	}

	lines := make([]string, len(outputs))
	for i, v := range outputs {
		lines[i] = vals.ToString(v)
	}

	var animated bool
	if v, ok := ev.Global().Index(AnimatedVar); ok {
		animated = vals.Bool(v)
	}
	return strings.Join(lines, "\n"), animated, nil
}
