package errors

// ErrorCode represents specific error codes for better debugging.
type ErrorCode string

const (
	// Authentication & Authorization.
	ErrCodeInvalidCredentials    ErrorCode = "AUTH001"
	ErrCodeTokenExpired          ErrorCode = "AUTH002"
	ErrCodeTokenInvalid          ErrorCode = "AUTH003"
	ErrCodeInsufficientPrivilege ErrorCode = "AUTH004"
	ErrCodeSessionExpired        ErrorCode = "AUTH005"

	// Pet Management.
	ErrCodePetNotFound     ErrorCode = "PET001"
	ErrCodePetLimitReached ErrorCode = "PET002"
	ErrCodeInvalidPetData  ErrorCode = "PET003"
	ErrCodePetNotOwned     ErrorCode = "PET004"

	// Battle Session.
	ErrCodeBattleSessionNotFound   ErrorCode = "BATTLE001"
	ErrCodeBattleSessionComplete   ErrorCode = "BATTLE002"
	ErrCodeBattleSessionInProgress ErrorCode = "BATTLE003"
	ErrCodeNotInBattleSession      ErrorCode = "BATTLE004"

	// Battle Round / Action.
	ErrCodeNotYourTurn        ErrorCode = "ROUND001"
	ErrCodeInvalidTarget      ErrorCode = "ROUND002"
	ErrCodeInvalidAbilitySlot ErrorCode = "ROUND003"
	ErrCodeAbilityOnCooldown  ErrorCode = "ROUND004"
	ErrCodeNoActivePet        ErrorCode = "ROUND005"

	// Validation.
	ErrCodeValidationFailed ErrorCode = "VAL001"
	ErrCodeInvalidInput     ErrorCode = "VAL002"
	ErrCodeMissingRequired  ErrorCode = "VAL003"
	ErrCodeInvalidFormat    ErrorCode = "VAL004"
	ErrCodeOutOfRange       ErrorCode = "VAL005"

	// Database.
	ErrCodeDatabaseError       ErrorCode = "DB001"
	ErrCodeDuplicateEntry      ErrorCode = "DB002"
	ErrCodeForeignKeyViolation ErrorCode = "DB003"
	ErrCodeDeadlock            ErrorCode = "DB004"

	// General.
	ErrCodeInternalError      ErrorCode = "INT001"
	ErrCodeServiceUnavailable ErrorCode = "INT002"
	ErrCodeTimeout            ErrorCode = "INT003"
	ErrCodeRateLimitExceeded  ErrorCode = "INT004"
)

// ErrorCodeMessages provides human-readable descriptions for error codes.
var ErrorCodeMessages = map[ErrorCode]string{
	// Authentication & Authorization.
	ErrCodeInvalidCredentials:    "Invalid credentials",
	ErrCodeTokenExpired:          "Authentication token has expired",
	ErrCodeTokenInvalid:          "Invalid authentication token",
	ErrCodeInsufficientPrivilege: "Insufficient privileges to perform this action",
	ErrCodeSessionExpired:        "Session has expired",

	// Pet Management.
	ErrCodePetNotFound:     "Pet not found",
	ErrCodePetLimitReached: "Pet limit reached",
	ErrCodeInvalidPetData:  "Invalid pet data",
	ErrCodePetNotOwned:     "Pet not owned by user",

	// Battle Session.
	ErrCodeBattleSessionNotFound:   "Battle session not found",
	ErrCodeBattleSessionComplete:   "Battle session already complete",
	ErrCodeBattleSessionInProgress: "Battle session already in progress",
	ErrCodeNotInBattleSession:      "Not a participant in this battle session",

	// Battle Round / Action.
	ErrCodeNotYourTurn:        "Not your turn",
	ErrCodeInvalidTarget:      "Invalid target",
	ErrCodeInvalidAbilitySlot: "Invalid ability slot",
	ErrCodeAbilityOnCooldown:  "Ability is on cooldown",
	ErrCodeNoActivePet:        "No active pet to act with",

	// Validation.
	ErrCodeValidationFailed: "Validation failed",
	ErrCodeInvalidInput:     "Invalid input provided",
	ErrCodeMissingRequired:  "Missing required field",
	ErrCodeInvalidFormat:    "Invalid format",
	ErrCodeOutOfRange:       "Value out of allowed range",

	// Database.
	ErrCodeDatabaseError:       "Database operation failed",
	ErrCodeDuplicateEntry:      "Duplicate entry",
	ErrCodeForeignKeyViolation: "Foreign key constraint violation",
	ErrCodeDeadlock:            "Database deadlock detected",

	// General.
	ErrCodeInternalError:      "Internal server error",
	ErrCodeServiceUnavailable: "Service temporarily unavailable",
	ErrCodeTimeout:            "Request timeout",
	ErrCodeRateLimitExceeded:  "Rate limit exceeded",
}

// GetErrorMessage returns the message for an error code.
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := ErrorCodeMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
