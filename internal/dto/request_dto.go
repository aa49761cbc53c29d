package dto

// MaxPromptLength bounds the prompt body; anything longer is rejected at
// binding time before any scoring work runs.
const MaxPromptLength = 2400

type SubmissionCreateDTO struct {
	ChallengeID   uint   `json:"challenge_id" binding:"required"`
	Prompt        string `json:"prompt" binding:"required,max=2400"`
	GeneratedCode string `json:"generated_code" binding:"required"`
}

type GenerateRequestDTO struct {
	Prompt               string `json:"prompt" binding:"required,max=2400"`
	ChallengeDescription string `json:"challenge_description" binding:"required"`
	FunctionName         string `json:"function_name" binding:"required"`
}
