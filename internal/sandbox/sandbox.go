package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// TestCase pairs an invocation input with its expected observable value.
// Input is either a single JSON value or, for multi-argument calls, a JSON
// array spread as positional arguments.
type TestCase struct {
	Input    any `json:"input"`
	Expected any `json:"expected"`
}

// Result is the outcome of judging one code blob against a test suite.
type Result struct {
	Passed           bool   `json:"passed"`
	PassedCount      int    `json:"passed_count"`
	TotalCount       int    `json:"total_count"`
	CorrectnessScore int    `json:"correctness_score"`
	Reason           string `json:"reason,omitempty"`
}

// ParseTestCases decodes the jsonb test suite stored on a challenge.
func ParseTestCases(raw []byte) ([]TestCase, error) {
	var tcs []TestCase
	if err := json.Unmarshal(raw, &tcs); err != nil {
		return nil, fmt.Errorf("invalid test cases: %w", err)
	}
	return tcs, nil
}

const (
	// DefaultInvocationTimeout bounds every single entry into the VM
	// (compile and each test case). Untrusted code can infinite-loop; the
	// watchdog interrupts the interpreter when the budget is spent.
	DefaultInvocationTimeout = 500 * time.Millisecond

	// defaultMaxTimerSteps caps how many virtual timers may fire while
	// settling an async result, so self-rescheduling code cannot spin the
	// pump forever.
	defaultMaxTimerSteps = 10_000
)

// Executor compiles untrusted JavaScript in an isolated goja runtime and
// judges it through the harness protocol of the challenge. Each RunTests call
// gets a fresh runtime; nothing leaks between submissions.
type Executor struct {
	invocationTimeout time.Duration
	maxTimerSteps     int
}

func NewExecutor(invocationTimeout time.Duration) *Executor {
	if invocationTimeout <= 0 {
		invocationTimeout = DefaultInvocationTimeout
	}
	return &Executor{invocationTimeout: invocationTimeout, maxTimerSteps: defaultMaxTimerSteps}
}

// sandboxTemplate shadows every host-reachable binding before the submission
// body runs, then hands back its entry point. A missing symbol surfaces as a
// ReferenceError naming it.
const sandboxTemplate = `(function () {
"use strict";
const process = undefined;
const require = undefined;
const global = undefined;
const globalThis = undefined;
const Bun = undefined;
const Deno = undefined;
%s
;return %s;
})()`

var (
	helperOnce sync.Once
	helperProg *goja.Program
)

func helperProgram() *goja.Program {
	helperOnce.Do(func() {
		helperProg = goja.MustCompile("harness.js", helperSrc, true)
	})
	return helperProg
}

type runContext struct {
	vm         *goja.Runtime
	tq         *timerQueue
	spec       harnessSpec
	entry      goja.Value    // the exported function, or object of functions
	entryFn    goja.Callable // set when entry is a single function
	driver     goja.Callable
	stable     goja.Callable
	stableJSON goja.Callable
	jsonParse  goja.Callable
}

// RunTests compiles code in a restricted scope and executes it against every
// test case through the protocol adapter for kind. A compile or symbol-lookup
// failure yields a zero score with a descriptive reason and no per-test work;
// a runtime exception inside one test case fails that case only.
func (e *Executor) RunTests(code string, kind Kind, functionName string, testCases []TestCase) Result {
	total := len(testCases)
	spec, ok := registry[kind]
	if !ok {
		return Result{TotalCount: total, Reason: fmt.Sprintf("Unknown harness kind %q.", kind)}
	}
	if total == 0 {
		return Result{Reason: "Challenge has no test cases."}
	}

	rc, err := e.setup(spec)
	if err != nil {
		return Result{TotalCount: total, Reason: fmt.Sprintf("Harness setup failed: %v", err)}
	}

	wrapper := fmt.Sprintf(sandboxTemplate, code, spec.exportExpr(functionName))
	exported, err := e.guarded(rc.vm, func() (goja.Value, error) { return rc.vm.RunString(wrapper) })
	if err != nil {
		return Result{TotalCount: total, Reason: "Code compilation failed: " + err.Error()}
	}
	if reason := rc.bindEntry(exported, functionName); reason != "" {
		return Result{TotalCount: total, Reason: reason}
	}

	passedCount := 0
	for _, tc := range testCases {
		if e.runCase(rc, tc) {
			passedCount++
		}
	}

	result := Result{
		Passed:           passedCount == total,
		PassedCount:      passedCount,
		TotalCount:       total,
		CorrectnessScore: int(math.Round(float64(passedCount) / float64(total) * 100)),
	}
	if !result.Passed {
		result.Reason = fmt.Sprintf("Failed %d of %d server tests.", total-passedCount, total)
	}
	return result
}

func (e *Executor) setup(spec harnessSpec) (*runContext, error) {
	vm := goja.New()
	rc := &runContext{vm: vm, tq: newTimerQueue(vm), spec: spec}

	if _, err := vm.RunProgram(helperProgram()); err != nil {
		return nil, err
	}
	var err error
	if rc.stable, err = callable(vm.Get("__stableStringify")); err != nil {
		return nil, err
	}
	if rc.stableJSON, err = callable(vm.Get("__stableOfJSON")); err != nil {
		return nil, err
	}
	if rc.jsonParse, err = callable(vm.Get("JSON").ToObject(vm).Get("parse")); err != nil {
		return nil, err
	}
	if spec.driver != "" {
		if rc.driver, err = callable(vm.Get(spec.driver)); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// bindEntry validates the value the sandbox wrapper returned. Returns a
// rejection reason, or "" when the entry point is usable.
func (rc *runContext) bindEntry(exported goja.Value, functionName string) string {
	rc.entry = exported
	if len(rc.spec.exports) > 0 {
		obj, ok := exported.(*goja.Object)
		if !ok {
			return fmt.Sprintf("Expected `%s` to be exported.", rc.spec.exports[0])
		}
		for _, name := range rc.spec.exports {
			if _, ok := goja.AssertFunction(obj.Get(name)); !ok {
				return fmt.Sprintf("Expected `%s` to be a function.", name)
			}
		}
		return ""
	}

	fn, ok := goja.AssertFunction(exported)
	if !ok {
		name := rc.spec.exportExpr(functionName)
		return fmt.Sprintf("Expected `%s` to be a function.", name)
	}
	rc.entryFn = fn
	return ""
}

func (e *Executor) runCase(rc *runContext, tc TestCase) bool {
	inputJSON, err := json.Marshal(tc.Input)
	if err != nil {
		return false
	}
	expectedJSON, err := json.Marshal(tc.Expected)
	if err != nil {
		return false
	}
	want, err := rc.stableJSON(goja.Undefined(), rc.vm.ToValue(string(expectedJSON)))
	if err != nil {
		return false
	}

	var got goja.Value
	if rc.spec.driver == "" {
		args, err := rc.genericArgs(string(inputJSON))
		if err != nil {
			return false
		}
		got, err = e.guarded(rc.vm, func() (goja.Value, error) {
			return rc.entryFn(goja.Undefined(), args...)
		})
		if err != nil {
			return false
		}
	} else {
		input, err := rc.jsonParse(goja.Undefined(), rc.vm.ToValue(string(inputJSON)))
		if err != nil {
			return false
		}
		got, err = e.guarded(rc.vm, func() (goja.Value, error) {
			return rc.driver(goja.Undefined(), rc.entry, input)
		})
		if err != nil {
			return false
		}
		if rc.spec.async {
			got, err = e.awaitSettled(rc, got)
			if err != nil {
				return false
			}
		}
	}

	gotStr, err := rc.stable(goja.Undefined(), got)
	if err != nil {
		return false
	}
	return gotStr.String() == want.String()
}

// genericArgs turns the test input into positional arguments: a JSON array
// spreads, anything else is a single argument.
func (rc *runContext) genericArgs(inputJSON string) ([]goja.Value, error) {
	parsed, err := rc.jsonParse(goja.Undefined(), rc.vm.ToValue(inputJSON))
	if err != nil {
		return nil, err
	}
	if obj, ok := parsed.(*goja.Object); ok && obj.ClassName() == "Array" {
		n := obj.Get("length").ToInteger()
		args := make([]goja.Value, 0, n)
		for i := int64(0); i < n; i++ {
			args = append(args, obj.Get(strconv.FormatInt(i, 10)))
		}
		return args, nil
	}
	return []goja.Value{parsed}, nil
}

// awaitSettled pumps the virtual timer queue until the promise settles.
// Promise reaction jobs run whenever control returns from the VM, so firing
// timers one at a time is enough to drive then-chains forward.
func (e *Executor) awaitSettled(rc *runContext, v goja.Value) (goja.Value, error) {
	p, ok := v.Export().(*goja.Promise)
	if !ok {
		return v, nil
	}
	steps := 0
	for p.State() == goja.PromiseStatePending {
		if steps >= e.maxTimerSteps {
			return nil, errors.New("timer step budget exceeded")
		}
		fired, err := rc.tq.fireNext(func(fn goja.Callable, args []goja.Value) error {
			_, err := e.guarded(rc.vm, func() (goja.Value, error) {
				return fn(goja.Undefined(), args...)
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		if !fired {
			return nil, errors.New("promise never settles: no pending timers")
		}
		steps++
	}
	if p.State() == goja.PromiseStateRejected {
		return nil, fmt.Errorf("promise rejected: %v", p.Result())
	}
	return p.Result(), nil
}

// guarded runs one entry into the VM under the invocation watchdog. An
// interrupt is translated into a regular error and the runtime is cleared so
// the remaining test cases can still run.
func (e *Executor) guarded(vm *goja.Runtime, run func() (goja.Value, error)) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("sandbox panic: %v", r)
		}
	}()

	watchdog := time.AfterFunc(e.invocationTimeout, func() {
		vm.Interrupt("execution time limit exceeded")
	})
	defer watchdog.Stop()

	v, err = run()
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			vm.ClearInterrupt()
			return nil, fmt.Errorf("execution exceeded the %s time limit", e.invocationTimeout)
		}
		return nil, err
	}
	return v, nil
}

func callable(v goja.Value) (goja.Callable, error) {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, errors.New("harness helper is not a function")
	}
	return fn, nil
}
