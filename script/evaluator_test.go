package script

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jpaquim/bauble"
)

func TestEvaluateScript(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bauble.EvaluationResult
	}{
		{
			name: "echo",
			code: "echo shader",
			want: bauble.EvaluationResult{ShaderSource: "shader"},
		},
		{
			name: "values",
			code: "put first second",
			want: bauble.EvaluationResult{ShaderSource: "first\nsecond"},
		},
		{
			name: "multi-line string",
			code: "echo \"a\nb\"",
			want: bauble.EvaluationResult{ShaderSource: "a\nb"},
		},
		{
			name: "animated",
			code: "var animated = $true\necho shader",
			want: bauble.EvaluationResult{ShaderSource: "shader", IsAnimated: true},
		},
		{
			name: "not animated",
			code: "var animated = $false\necho shader",
			want: bauble.EvaluationResult{ShaderSource: "shader"},
		},
		{
			name: "no output",
			code: "var x = 1",
			want: bauble.EvaluationResult{IsError: true, Error: ErrNoOutput.Error()},
		},
	}
	ev := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ev.EvaluateScript(tt.code)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateScriptErrors(t *testing.T) {
	ev := NewEvaluator()
	for _, code := range []string{"fail oops", "echo (", "nonexistent-command-xyz"} {
		got := ev.EvaluateScript(code)
		if !got.IsError {
			t.Errorf("%q: expected an error, got %+v", code, got)
			continue
		}
		if got.Error == "" {
			t.Errorf("%q: empty error message", code)
		}
		if got.ShaderSource != "" || got.IsAnimated {
			t.Errorf("%q: error result carries output: %+v", code, got)
		}
	}
	if got := ev.EvaluateScript("fail oops"); !strings.Contains(got.Error, "oops") {
		t.Errorf("error %q does not mention the failure", got.Error)
	}
}

func TestEvaluateScriptFreshInterpreter(t *testing.T) {
	ev := NewEvaluator()
	if got := ev.EvaluateScript("var animated = $true\necho a"); !got.IsAnimated {
		t.Fatal("first script should be animated")
	}
	if got := ev.EvaluateScript("echo b"); got.IsAnimated {
		t.Error("$animated leaked into the next evaluation")
	}
}

func TestDefaultScript(t *testing.T) {
	got := NewEvaluator().EvaluateScript(Default)
	if got.IsError {
		t.Fatalf("default script failed: %s", got.Error)
	}
	if !got.IsAnimated {
		t.Error("default script should be animated")
	}
	for _, want := range []string{"//kage:unit pixels", "func Fragment(", "var Rotation vec2"} {
		if !strings.Contains(got.ShaderSource, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
}
