// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// Role names as stored in the users table.
const (
	RoleAdopter = "adopter"
	RoleAdmin   = "admin"
)

// Pet status values.
const (
	PetAvailable = "available"
	PetAdopted   = "adopted"
)

// Adoption application status values.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationDenied   = "denied"
)

// CascadeDenyNote is written to sibling applications when a competing
// application for the same pet is approved.
const CascadeDenyNote = "Pet adopted by another applicant"

// User represents the data model for a user in the system.
type User struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the user.
	Username  string     `json:"username"`   // Username of the user.
	Email     string     `json:"email"`      // Email address of the user, stored lower-case.
	Password  string     `json:"password"`   // Password hash of the user.
	Role      string     `json:"role"`       // Role of the user, adopter or admin.
	FullName  string     `json:"full_name"`  // Full name of the user.
	Phone     string     `json:"phone"`      // Phone number of the user.
	Address   string     `json:"address"`    // Address of the user.
	CreatedAt *time.Time `json:"created_at"` // Timestamp when the user was created.
}

// Pet represents the data model for an adoptable animal.
type Pet struct {
	ID                *uuid.UUID `json:"id"`                 // Unique identifier for the pet.
	Name              string     `json:"name"`               // Name of the pet.
	Species           string     `json:"species"`            // Species of the pet.
	Breed             string     `json:"breed"`              // Breed of the pet.
	Age               int        `json:"age"`                // Age of the pet in years.
	Gender            string     `json:"gender"`             // Gender of the pet.
	Size              string     `json:"size"`               // Size category of the pet.
	Description       string     `json:"description"`        // Free-text description of the pet.
	SpecialNeeds      string     `json:"special_needs"`      // Special needs of the pet, if any.
	VaccinationStatus string     `json:"vaccination_status"` // Vaccination status of the pet.
	PhotoURL          string     `json:"photo_url"`          // Opaque photo reference, storage is external.
	Location          string     `json:"location"`           // Location of the pet.
	Status            string     `json:"status"`             // Status of the pet, available or adopted.
	CreatedAt         *time.Time `json:"created_at"`         // Timestamp when the pet was created.
}

// AdoptionApplication links an applicant to a pet together with the
// applicant-supplied form fields and the review outcome.
type AdoptionApplication struct {
	ID                   *uuid.UUID `json:"id"`                     // Unique identifier for the application.
	UserID               *uuid.UUID `json:"user_id"`                // Identifier of the applicant.
	PetID                *uuid.UUID `json:"pet_id"`                 // Identifier of the pet applied for.
	Status               string     `json:"status"`                 // Status of the application.
	HousingType          string     `json:"housing_type"`           // Housing type of the applicant.
	HasOtherPets         bool       `json:"has_other_pets"`         // Whether the applicant has other pets.
	OtherPetsDescription string     `json:"other_pets_description"` // Description of the applicant's other pets.
	ExperienceWithPets   string     `json:"experience_with_pets"`   // Prior experience of the applicant with pets.
	ReasonForAdoption    string     `json:"reason_for_adoption"`    // Reason given for the adoption.
	ApplicationText      string     `json:"application_text"`       // Free-text addition to the application.
	SubmittedAt          *time.Time `json:"submitted_at"`           // Timestamp when the application was submitted.
	ReviewedAt           *time.Time `json:"reviewed_at"`            // Timestamp when the application was reviewed.
	AdminNotes           string     `json:"admin_notes"`            // Notes left by the reviewing admin.
}

// PasswordResetToken represents a single-use token bound to a user,
// used for password resets.
type PasswordResetToken struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the token record.
	UserID    *uuid.UUID `json:"user_id"`    // Identifier of the user associated with this token.
	Token     string     `json:"token"`      // Token string.
	ExpiresAt *time.Time `json:"expires_at"` // Timestamp when the token expires.
}
