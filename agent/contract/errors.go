package contract

import "errors"

var (
	ErrModelInvoke       = errors.New("model invoke failed")
	ErrSchemaViolation   = errors.New("model response violates schema")
	ErrPromptMissing     = errors.New("required prompt is missing")
	ErrValidation        = errors.New("validation failed")
	ErrCallLimitExceeded = errors.New("llm call limit exceeded for this run")
	ErrReviewAborted     = errors.New("human review aborted")
)
