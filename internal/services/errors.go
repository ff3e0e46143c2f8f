package services

import "errors"

// Custom errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRequest     = errors.New("invalid request")

	ErrPollNotFound     = errors.New("poll not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrVoteNotFound     = errors.New("vote not found")
	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrAlreadyVoted     = errors.New("You have already voted on this question.")
	ErrPollClosed       = errors.New("poll is not open for voting")
	ErrOptionMismatch   = errors.New("option does not belong to the question")
	ErrPollUnavailable  = errors.New("poll is not active")
	ErrInvalidEventType = errors.New("invalid distribution event type")
	ErrInvalidFormat    = errors.New("unsupported QR code format")
)

var (
	ErrNoProvider          = errors.New("no available LLM providers configured (OpenAI or Gemini)")
	ErrVectorStoreDisabled = errors.New("vector store is not configured")
	ErrInvalidGeneration   = errors.New("missing required fields in generated poll")
)
