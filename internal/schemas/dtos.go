package schemas

import "github.com/google/uuid"

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// MetadataDTO is a struct that represents the version response
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

// UserDTO is a struct that represents a user response
type UserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// TokenDTO is a struct that represents a token response
// Token is the JWT token
type TokenDTO struct {
	Token string `json:"token"`
}

// PetDTO is a struct that represents a pet response
type PetDTO struct {
	PetId             uuid.UUID `json:"petId"`
	Name              string    `json:"name"`
	Species           string    `json:"species"`
	Breed             string    `json:"breed"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	Size              string    `json:"size"`
	Description       string    `json:"description"`
	SpecialNeeds      string    `json:"specialNeeds"`
	VaccinationStatus string    `json:"vaccinationStatus"`
	PhotoURL          string    `json:"photoUrl"`
	Location          string    `json:"location"`
	Status            string    `json:"status"`
	CreatedAt         string    `json:"createdAt"`
}

// PetSummaryDTO is a struct that represents the pet fields joined into
// application listings
type PetSummaryDTO struct {
	PetId    uuid.UUID `json:"petId"`
	Name     string    `json:"name"`
	Species  string    `json:"species"`
	Breed    string    `json:"breed"`
	PhotoURL string    `json:"photoUrl"`
}

// ApplicantDTO is a struct that represents the applicant fields joined into
// admin application listings
type ApplicantDTO struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
}

// ApplicationDTO is a struct that represents an adoption application response
// ReviewedAt is null while the application is pending
// Pet and Applicant are only set on joined projections
type ApplicationDTO struct {
	ApplicationId        uuid.UUID      `json:"applicationId"`
	PetId                uuid.UUID      `json:"petId"`
	Status               string         `json:"status"`
	HousingType          string         `json:"housingType"`
	HasOtherPets         bool           `json:"hasOtherPets"`
	OtherPetsDescription string         `json:"otherPetsDescription"`
	ExperienceWithPets   string         `json:"experienceWithPets"`
	ReasonForAdoption    string         `json:"reasonForAdoption"`
	ApplicationText      string         `json:"applicationText"`
	SubmittedAt          string         `json:"submittedAt"`
	ReviewedAt           *string        `json:"reviewedAt"`
	AdminNotes           string         `json:"adminNotes"`
	Pet                  *PetSummaryDTO `json:"pet,omitempty"`
	Applicant            *ApplicantDTO  `json:"applicant,omitempty"`
}

// StatsDTO is a struct that represents the admin dashboard counts
type StatsDTO struct {
	TotalPets           int `json:"totalPets"`
	AvailablePets       int `json:"availablePets"`
	PendingApplications int `json:"pendingApplications"`
	TotalAdopters       int `json:"totalAdopters"`
}

// PaginatedResponse is a struct that wraps list responses with pagination metadata
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination is a struct that represents the pagination metadata
type Pagination struct {
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
}
