// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Username is required and must be less than 20 characters
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
// FullName, Phone and Address are optional profile fields
type RegistrationRequest struct {
	Username string `json:"username" validate:"required,max=20,username_validation"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password_validation"`
	FullName string `json:"fullName" validate:"max=100"`
	Phone    string `json:"phone" validate:"max=30"`
	Address  string `json:"address" validate:"max=256"`
}

// LoginRequest is a struct that represents a login request
// Identifier is required and matches either the username or the email
// Password is required
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=128"`
	Password   string `json:"password" validate:"required,min=6"`
}

// PasswordResetRequest is a struct that represents a password reset request
// Email is required and must be a valid email
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SetNewPasswordRequest is a struct that represents the consumption of a reset token
// Token is required and must be a UUID
// NewPassword is required and must be at least 8 characters
type SetNewPasswordRequest struct {
	Token       string `json:"token" validate:"required,uuid4"`
	NewPassword string `json:"newPassword" validate:"required,min=8,password_validation"`
}

// CreatePetRequest is a struct that represents a pet creation request
// Age is a pointer so that an age of zero still satisfies required
type CreatePetRequest struct {
	Name              string `json:"name" validate:"required,max=50"`
	Species           string `json:"species" validate:"required,max=50"`
	Breed             string `json:"breed" validate:"required,max=50"`
	Age               *int   `json:"age" validate:"required,gte=0,lte=100"`
	Gender            string `json:"gender" validate:"required,max=20"`
	Size              string `json:"size" validate:"required,oneof=small medium large"`
	Description       string `json:"description" validate:"max=2000"`
	SpecialNeeds      string `json:"specialNeeds" validate:"max=1000"`
	VaccinationStatus string `json:"vaccinationStatus" validate:"required,max=100"`
	PhotoURL          string `json:"photoUrl" validate:"max=255"`
	Location          string `json:"location" validate:"required,max=100"`
}

// UpdatePetRequest is a struct that represents a pet update request
// Status may only be changed between available and adopted
type UpdatePetRequest struct {
	Name              string `json:"name" validate:"required,max=50"`
	Species           string `json:"species" validate:"required,max=50"`
	Breed             string `json:"breed" validate:"required,max=50"`
	Age               *int   `json:"age" validate:"required,gte=0,lte=100"`
	Gender            string `json:"gender" validate:"required,max=20"`
	Size              string `json:"size" validate:"required,oneof=small medium large"`
	Description       string `json:"description" validate:"max=2000"`
	SpecialNeeds      string `json:"specialNeeds" validate:"max=1000"`
	VaccinationStatus string `json:"vaccinationStatus" validate:"required,max=100"`
	PhotoURL          string `json:"photoUrl" validate:"max=255"`
	Location          string `json:"location" validate:"required,max=100"`
	Status            string `json:"status" validate:"required,oneof=available adopted"`
}

// CreateApplicationRequest is a struct that represents an adoption application submission
type CreateApplicationRequest struct {
	HousingType          string `json:"housingType" validate:"required,max=50"`
	HasOtherPets         bool   `json:"hasOtherPets"`
	OtherPetsDescription string `json:"otherPetsDescription" validate:"max=1000"`
	ExperienceWithPets   string `json:"experienceWithPets" validate:"required,max=2000"`
	ReasonForAdoption    string `json:"reasonForAdoption" validate:"required,max=2000"`
	ApplicationText      string `json:"applicationText" validate:"max=2000"`
}

// ReviewApplicationRequest is a struct that represents an application review
// Action is required and must be approve or deny
type ReviewApplicationRequest struct {
	Action     string `json:"action" validate:"required,oneof=approve deny"`
	AdminNotes string `json:"adminNotes" validate:"max=2000"`
}
