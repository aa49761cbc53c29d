package sandbox

import (
	"strings"
	"testing"
	"time"
)

func runGeneric(t *testing.T, code, functionName string, cases []TestCase) Result {
	t.Helper()
	return NewExecutor(0).RunTests(code, KindGeneric, functionName, cases)
}

func TestRunTestsGeneric(t *testing.T) {
	code := `function sum(a, b) { return a + b; }`
	cases := []TestCase{
		{Input: []any{1, 2}, Expected: 3},
		{Input: []any{-5, 5}, Expected: 0},
		{Input: []any{1.5, 2.5}, Expected: 4},
	}
	result := runGeneric(t, code, "sum", cases)
	if !result.Passed {
		t.Fatalf("Passed = false, reason %q", result.Reason)
	}
	if result.CorrectnessScore != 100 {
		t.Errorf("CorrectnessScore = %d, want 100", result.CorrectnessScore)
	}
	if result.PassedCount != 3 || result.TotalCount != 3 {
		t.Errorf("counts = %d/%d, want 3/3", result.PassedCount, result.TotalCount)
	}
}

func TestRunTestsSingleArgument(t *testing.T) {
	// A non-array input is passed as one argument, not spread.
	code := `function first(arr) { return arr.items[0]; }`
	cases := []TestCase{
		{Input: map[string]any{"items": []any{7, 8}}, Expected: 7},
	}
	result := runGeneric(t, code, "first", cases)
	if !result.Passed {
		t.Fatalf("Passed = false, reason %q", result.Reason)
	}
}

func TestRunTestsObjectKeyOrder(t *testing.T) {
	// Property insertion order must not affect equality.
	code := `function make() { return { b: 2, a: 1 }; }`
	cases := []TestCase{
		{Input: []any{}, Expected: map[string]any{"a": 1, "b": 2}},
	}
	result := runGeneric(t, code, "make", cases)
	if !result.Passed {
		t.Fatalf("Passed = false, reason %q", result.Reason)
	}
}

func TestRunTestsNullVsUndefined(t *testing.T) {
	code := `function giveUndefined() { return undefined; }`
	cases := []TestCase{
		{Input: []any{}, Expected: nil},
	}
	result := runGeneric(t, code, "giveUndefined", cases)
	if result.Passed {
		t.Fatal("undefined compared equal to expected null")
	}
}

func TestRunTestsCompileFailure(t *testing.T) {
	result := runGeneric(t, `function sum(a, b { return a + b; }`, "sum", []TestCase{
		{Input: []any{1, 2}, Expected: 3},
	})
	if result.Passed || result.CorrectnessScore != 0 {
		t.Fatalf("expected zero score, got %+v", result)
	}
	if !strings.Contains(result.Reason, "Code compilation failed") {
		t.Errorf("Reason = %q, want compilation failure", result.Reason)
	}
}

func TestRunTestsMissingFunction(t *testing.T) {
	result := runGeneric(t, `function other() {}; var sum = 42;`, "sum", []TestCase{
		{Input: []any{1, 2}, Expected: 3},
	})
	if result.Passed {
		t.Fatal("expected failure for non-function entry point")
	}
	if !strings.Contains(result.Reason, "`sum`") {
		t.Errorf("Reason = %q, want it to name the entry point", result.Reason)
	}
}

func TestRunTestsRuntimeExceptionFailsCaseOnly(t *testing.T) {
	code := `function pick(n) { if (n === 2) throw new Error("boom"); return n; }`
	cases := []TestCase{
		{Input: []any{1}, Expected: 1},
		{Input: []any{2}, Expected: 2},
		{Input: []any{3}, Expected: 3},
	}
	result := runGeneric(t, code, "pick", cases)
	if result.Passed {
		t.Fatal("expected partial failure")
	}
	if result.PassedCount != 2 {
		t.Errorf("PassedCount = %d, want 2", result.PassedCount)
	}
	if result.CorrectnessScore != 67 {
		t.Errorf("CorrectnessScore = %d, want 67", result.CorrectnessScore)
	}
	if !strings.Contains(result.Reason, "Failed 1 of 3") {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestRunTestsInfiniteLoopInterrupted(t *testing.T) {
	executor := NewExecutor(50 * time.Millisecond)
	result := executor.RunTests(`while (true) {}`, KindGeneric, "sum", []TestCase{
		{Input: []any{1, 2}, Expected: 3},
	})
	if result.Passed {
		t.Fatal("expected interruption")
	}
	if !strings.Contains(result.Reason, "Code compilation failed") {
		t.Errorf("Reason = %q, want compile-phase timeout", result.Reason)
	}
}

func TestRunTestsInfiniteLoopInsideCase(t *testing.T) {
	executor := NewExecutor(50 * time.Millisecond)
	code := `function spin(n) { if (n === 1) { while (true) {} } return n; }`
	result := executor.RunTests(code, KindGeneric, "spin", []TestCase{
		{Input: []any{1}, Expected: 1},
		{Input: []any{2}, Expected: 2},
	})
	if result.PassedCount != 1 {
		t.Fatalf("PassedCount = %d, want 1 (loop case fails, next case still runs)", result.PassedCount)
	}
}

func TestRunTestsEmptySuite(t *testing.T) {
	result := runGeneric(t, `function sum(a, b) { return a + b; }`, "sum", nil)
	if result.Passed || result.Reason == "" {
		t.Fatalf("expected rejection for empty suite, got %+v", result)
	}
}

func TestRunTestsUnknownKind(t *testing.T) {
	result := NewExecutor(0).RunTests(`function f() {}`, Kind("bogus"), "f", []TestCase{
		{Input: []any{}, Expected: nil},
	})
	if result.Passed || !strings.Contains(result.Reason, "bogus") {
		t.Fatalf("expected unknown-kind rejection, got %+v", result)
	}
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: KindGeneric},
		{in: "generic", want: KindGeneric},
		{in: "curry", want: KindCurry},
		{in: "pool", want: KindPromisePool},
		{in: "nope", wantErr: true},
	}
	for _, tt := range tests {
		got, err := KindFor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("KindFor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("KindFor(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
