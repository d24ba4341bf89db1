package bauble

// EvaluationResult is what an Evaluator returns for one script run.
type EvaluationResult struct {
	IsError      bool
	ShaderSource string
	IsAnimated   bool
	Error        string
}

// Evaluator turns script text into shader source. It is handed to
// NewSession once and never replaced.
type Evaluator interface {
	EvaluateScript(script string) EvaluationResult
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(script string) EvaluationResult

// EvaluateScript calls f(script).
func (f EvaluatorFunc) EvaluateScript(script string) EvaluationResult {
	return f(script)
}

// Renderer compiles and draws the shader. A failed RecompileShader must leave
// the previously compiled shader active.
type Renderer interface {
	RecompileShader(source string) error
	Draw()
}

// ScriptSource provides the current script text, typically an editor buffer
// or a watched file.
type ScriptSource interface {
	Text() string
}

// StaticScript is a ScriptSource that never changes.
type StaticScript string

// Text returns the script.
func (s StaticScript) Text() string {
	return string(s)
}

// --- Evaluation state ---

// EvaluationState is the outcome of the most recent evaluation attempt:
// EvaluationUnknown, EvaluationSuccess, EvaluationFailed or
// ShaderCompilationFailed.
type EvaluationState interface {
	String() string
	evaluationState()
}

// EvaluationUnknown means no script has been evaluated yet.
type EvaluationUnknown struct{}

// EvaluationSuccess means the script evaluated and its shader compiled.
type EvaluationSuccess struct{}

// EvaluationFailed means the script did not produce shader source.
type EvaluationFailed struct {
	Message string
}

// ShaderCompilationFailed means the renderer rejected the shader source.
type ShaderCompilationFailed struct {
	Message string
}

func (EvaluationUnknown) evaluationState()       {}
func (EvaluationSuccess) evaluationState()       {}
func (EvaluationFailed) evaluationState()        {}
func (ShaderCompilationFailed) evaluationState() {}

func (EvaluationUnknown) String() string { return "unknown" }
func (EvaluationSuccess) String() string { return "success" }
func (e EvaluationFailed) String() string {
	return "evaluation error: " + e.Message
}
func (e ShaderCompilationFailed) String() string {
	return "shader compilation error: " + e.Message
}
