package service

import (
	"fmt"

	"github.com/giaic/promptnights/internal/sandbox"
)

// CodeRunnerService judges generated code against a challenge's stored test
// suite. A non-nil error means the stored challenge data is broken (a server
// fault); user-code failures come back inside the Result instead.
type CodeRunnerService interface {
	RunTests(code string, harnessKind string, functionName string, rawTestCases []byte) (sandbox.Result, error)
}

type codeRunnerService struct {
	executor *sandbox.Executor
}

func NewCodeRunnerService() CodeRunnerService {
	return &codeRunnerService{executor: sandbox.NewExecutor(sandbox.DefaultInvocationTimeout)}
}

func (s *codeRunnerService) RunTests(code string, harnessKind string, functionName string, rawTestCases []byte) (sandbox.Result, error) {
	kind, err := sandbox.KindFor(harnessKind)
	if err != nil {
		return sandbox.Result{}, fmt.Errorf("challenge has invalid harness kind: %w", err)
	}
	testCases, err := sandbox.ParseTestCases(rawTestCases)
	if err != nil {
		return sandbox.Result{}, fmt.Errorf("challenge has invalid test cases: %w", err)
	}
	return s.executor.RunTests(code, kind, functionName, testCases), nil
}
