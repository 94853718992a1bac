package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrLearnerAccessOnly ErrCode = "LEARNER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Catalog ───────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrTopicNotFound      ErrCode = "TOPIC_NOT_FOUND"
	ErrCatalogMalformed   ErrCode = "CATALOG_MALFORMED"
	ErrCatalogUnavailable ErrCode = "CATALOG_UNAVAILABLE"

	// ─── Quiz ──────────────────────────────────────────────────────────
	ErrNoQuiz          ErrCode = "NO_QUIZ"
	ErrQuizNotReady    ErrCode = "QUIZ_NOT_READY"
	ErrQuizIncomplete  ErrCode = "QUIZ_INCOMPLETE"
	ErrAnswersLocked   ErrCode = "ANSWERS_LOCKED"
	ErrUnknownQuestion ErrCode = "UNKNOWN_QUESTION"
	ErrUnknownOption   ErrCode = "UNKNOWN_OPTION"
	ErrAlreadyScored   ErrCode = "ALREADY_SCORED"
	ErrNothingToRetry  ErrCode = "NOTHING_TO_RETRY"

	// ─── Progression ───────────────────────────────────────────────────
	ErrTopicLocked         ErrCode = "TOPIC_LOCKED"
	ErrNoTopicSelected     ErrCode = "NO_TOPIC_SELECTED"
	ErrSelectionSuperseded ErrCode = "SELECTION_SUPERSEDED"
	ErrSessionClosed       ErrCode = "SESSION_CLOSED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrLearnerAccessOnly:
		return "This resource is limited to learners."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "The submitted data is invalid."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Catalog ───────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrTopicNotFound:
		return "This topic is not part of the course."
	case ErrCatalogMalformed:
		return "The course service returned incomplete content."
	case ErrCatalogUnavailable:
		return "The course service is unreachable. Please try again."

	// ─── Quiz ──────────────────────────────────────────────────────────
	case ErrNoQuiz:
		return "This topic has no quiz."
	case ErrQuizNotReady:
		return "The quiz is not loaded yet."
	case ErrQuizIncomplete:
		return "Answer every question before submitting."
	case ErrAnswersLocked:
		return "Answers are locked. Retry the quiz to change them."
	case ErrUnknownQuestion:
		return "The question is not part of the current attempt."
	case ErrUnknownOption:
		return "The answer is not one of the question's options."
	case ErrAlreadyScored:
		return "This attempt has already been scored."
	case ErrNothingToRetry:
		return "There are no wrong answers to retry."

	// ─── Progression ───────────────────────────────────────────────────
	case ErrTopicLocked:
		return "Pass the current topic's quiz to unlock the next topic."
	case ErrNoTopicSelected:
		return "Select a topic first."
	case ErrSelectionSuperseded:
		return "A newer topic selection replaced this one."
	case ErrSessionClosed:
		return "The learning session has been closed."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."

	default:
		return "An unknown error occurred."
	}
}
