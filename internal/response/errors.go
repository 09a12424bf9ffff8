package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredential ErrCode = "INVALID_CREDENTIAL"
	ErrTokenRequired     ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid      ErrCode = "TOKEN_INVALID"
	ErrSessionExpired    ErrCode = "SESSION_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Portal flow ───────────────────────────────────────────────────
	ErrAlreadyAttempted     ErrCode = "ALREADY_ATTEMPTED"
	ErrInvalidState         ErrCode = "INVALID_STATE"
	ErrAnswerOutOfRange     ErrCode = "ANSWER_OUT_OF_RANGE"
	ErrConfirmationRequired ErrCode = "CONFIRMATION_REQUIRED"

	// ─── Backup ────────────────────────────────────────────────────────
	ErrInvalidFormat ErrCode = "INVALID_FORMAT"

	// ─── Resources / storage ───────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrStorageUnavailable ErrCode = "STORAGE_UNAVAILABLE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredential:
		return "Invalid password or student code."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrSessionExpired:
		return "Your session has ended. Please log in again."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrAlreadyAttempted:
		return "You have already attempted this test."
	case ErrInvalidState:
		return "This action is not allowed right now."
	case ErrAnswerOutOfRange:
		return "The question or option index is out of range."
	case ErrConfirmationRequired:
		return "This action replaces existing data and must be confirmed."
	case ErrInvalidFormat:
		return "The backup file format is invalid."
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrStorageUnavailable:
		return "The underlying store is currently unavailable."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
