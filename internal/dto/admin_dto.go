package dto

import "encoding/json"

type ChallengeCreateDTO struct {
	DayNumber     int             `json:"day_number" binding:"required,min=1,max=30"`
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	FunctionName  string          `json:"function_name" binding:"required"`
	HarnessKind   string          `json:"harness_kind"`
	ExampleInput  string          `json:"example_input"`
	ExampleOutput string          `json:"example_output"`
	TestCases     json.RawMessage `json:"test_cases" binding:"required"`
	Difficulty    string          `json:"difficulty" binding:"required,oneof=easy medium hard"`
	UnlocksAt     string          `json:"unlocks_at" binding:"required"`
}
