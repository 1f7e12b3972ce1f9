// Package js provides JavaScript execution for the document host.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
//
// Scripts run to completion on the caller's goroutine; there is no event
// loop and no concurrent script execution.
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// unrecoverable is implemented by panic values that signal a broken host
// invariant. Runtime re-raises them instead of turning them into script errors.
type unrecoverable interface {
	Unrecoverable() bool
}

// Runtime wraps a goja JavaScript runtime.
type Runtime struct {
	vm      *goja.Runtime
	logger  *zap.Logger
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a new JavaScript runtime. A nil logger discards output.
func NewRuntime(logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runtime{
		vm:     goja.New(),
		logger: logger,
	}
	r.setupConsole()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.recoverPanic("<eval>", &err)

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript runs JavaScript code from a script element. Scripts are
// compiled in non-strict mode; src names the script in stack traces.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.recoverPanic(src, &err)

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}

	_, err = r.vm.RunProgram(program)
	if err != nil {
		r.recordError(err)
	}
	return err
}

// recoverPanic turns panics from the goja parser or runtime into errors.
// Host invariant violations are re-raised.
func (r *Runtime) recoverPanic(src string, err *error) {
	p := recover()
	if p == nil {
		return
	}
	if u, ok := p.(unrecoverable); ok && u.Unrecoverable() {
		panic(p)
	}
	*err = fmt.Errorf("script execution panic in %s: %v", src, p)
	r.recordError(*err)
}

// recordError must be called with r.mu held.
func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.logger.Debug("script error", zap.Error(err))
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// setupConsole creates the console object. Output goes to the "console"
// logger with the formatted arguments in the message field.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logger := r.logger.Named("console")

	logAt := func(log func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			log("console", zap.String("message", formatArgs(call.Arguments)))
			return goja.Undefined()
		}
	}

	console.Set("log", logAt(logger.Info))
	console.Set("info", logAt(logger.Info))
	console.Set("debug", logAt(logger.Debug))
	console.Set("warn", logAt(logger.Warn))
	console.Set("error", logAt(logger.Error))

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			logger.Error("console", zap.String("message", msg))
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
