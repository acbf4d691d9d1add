package schemas

// CustomError is a struct that represents an error response
// Code is a stable identifier for the error condition
// Message is a human-readable description of the error
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// BadRequest is returned when the request body or query parameters are invalid.
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	// UsernameTaken is returned when the username is already taken.
	UsernameTaken = &CustomError{
		Code:    "ERR-002",
		Message: "The username is already taken. Please try another username.",
	}
	// EmailTaken is returned when the email is already registered.
	EmailTaken = &CustomError{
		Code:    "ERR-003",
		Message: "The email is already registered. Please try another email.",
	}
	// UserNotFound is returned when no account matches the given identifier.
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "No account found with that username or email.",
	}
	// InvalidCredentials is returned when the given credentials are wrong.
	InvalidCredentials = &CustomError{
		Code:    "ERR-005",
		Message: "The credentials are invalid. Please check the username and password and try again.",
	}
	// Unauthorized is returned when the request carries no valid session token.
	Unauthorized = &CustomError{
		Code:    "ERR-006",
		Message: "The request is unauthorized. Please log in and try again.",
	}
	// Forbidden is returned when the caller lacks the required role.
	Forbidden = &CustomError{
		Code:    "ERR-007",
		Message: "Access denied. Admin privileges required.",
	}
	// PetNotFound is returned when the pet id cannot be resolved.
	PetNotFound = &CustomError{
		Code:    "ERR-008",
		Message: "The pet could not be found.",
	}
	// PetNotAvailable is returned when the pet is not available for adoption.
	PetNotAvailable = &CustomError{
		Code:    "ERR-009",
		Message: "This pet is not available for adoption.",
	}
	// ApplicationAlreadyPending is returned on a duplicate pending application.
	ApplicationAlreadyPending = &CustomError{
		Code:    "ERR-010",
		Message: "You already have a pending application for this pet.",
	}
	// ApplicationNotFound is returned when the application id cannot be resolved.
	ApplicationNotFound = &CustomError{
		Code:    "ERR-011",
		Message: "The application could not be found.",
	}
	// ApplicationAlreadyReviewed is returned when reviewing a non-pending application.
	ApplicationAlreadyReviewed = &CustomError{
		Code:    "ERR-012",
		Message: "The application has already been reviewed.",
	}
	// AdminCannotApply is returned when an admin attempts to submit an application.
	AdminCannotApply = &CustomError{
		Code:    "ERR-013",
		Message: "Administrators cannot submit adoption applications.",
	}
	// ResetTokenNotFound is returned for an unknown or already used reset token.
	ResetTokenNotFound = &CustomError{
		Code:    "ERR-014",
		Message: "Invalid reset token. Please request a new one.",
	}
	// ResetTokenExpired is returned for a reset token past its expiry.
	ResetTokenExpired = &CustomError{
		Code:    "ERR-015",
		Message: "The reset token has expired. Please request a new one.",
	}
	// EmailNotSent is returned when the mail collaborator fails.
	EmailNotSent = &CustomError{
		Code:    "ERR-016",
		Message: "The email could not be sent. Please try again later.",
	}
	// DatabaseError is returned when a store operation fails.
	DatabaseError = &CustomError{
		Code:    "ERR-017",
		Message: "A database error occurred. Please try again later.",
	}
	// InternalServerError is returned for unexpected failures.
	InternalServerError = &CustomError{
		Code:    "ERR-018",
		Message: "An internal error occurred. Please try again later.",
	}
	// EmailUnreachable is returned when the email address fails verification.
	EmailUnreachable = &CustomError{
		Code:    "ERR-019",
		Message: "The email address appears to be unreachable. Please check the email and try again.",
	}
)
