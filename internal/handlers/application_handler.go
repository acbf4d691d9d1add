package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"adoption-server/internal/managers"
	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
)

// ApplicationHdl defines the handlers for the adoption application lifecycle.
type ApplicationHdl interface {
	SubmitApplication(c *gin.Context)
	ListMyApplications(c *gin.Context)
	ListApplications(c *gin.Context)
	GetApplication(c *gin.Context)
	ReviewApplication(c *gin.Context)
	GetAdminStats(c *gin.Context)
}

type ApplicationHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewApplicationHandler(databaseManager *managers.DatabaseMgr) ApplicationHdl {
	return &ApplicationHandler{
		DatabaseManager: *databaseManager,
	}
}

const applicationColumns = "a.application_id, a.pet_id, a.status, a.housing_type, a.has_other_pets, " +
	"a.other_pets_description, a.experience_with_pets, a.reason_for_adoption, a.application_text, " +
	"a.submitted_at, a.reviewed_at, a.admin_notes"

// SubmitApplication creates a pending application for an available pet.
// Admins cannot apply, a pet may only be applied for while available, and a
// user may hold at most one pending application per pet. The pet row is
// locked so the availability check stays valid until commit.
func (handler *ApplicationHandler) SubmitApplication(c *gin.Context) {
	claims := c.MustGet(utils.ClaimsKey.String()).(jwt.MapClaims)
	if role, _ := claims["role"].(string); role == schemas.RoleAdmin {
		utils.WriteAndLogError(c, schemas.AdminCannotApply, http.StatusForbidden, errors.New("admin cannot apply"))
		return
	}
	userId := claims["sub"].(string)

	petId, err := uuid.Parse(c.Param(utils.PetIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	applicationRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateApplicationRequest)

	// Lock the pet row for the duration of the check-then-act sequence
	var petStatus string
	queryString := "SELECT status FROM adoption_schema.pets WHERE pet_id = $1 FOR UPDATE"
	row := tx.QueryRow(c, queryString, petId)
	if err = row.Scan(&petStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.PetNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if petStatus != schemas.PetAvailable {
		err = errors.New("pet not available")
		utils.WriteAndLogError(c, schemas.PetNotAvailable, http.StatusConflict, err)
		return
	}

	// At most one pending application per user and pet
	queryString = "SELECT application_id FROM adoption_schema.adoption_applications " +
		"WHERE user_id = $1 AND pet_id = $2 AND status = 'pending'"
	rows, err := tx.Query(c, queryString, userId, petId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	pending := rows.Next()
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if pending {
		err = errors.New("pending application exists")
		utils.WriteAndLogError(c, schemas.ApplicationAlreadyPending, http.StatusConflict, err)
		return
	}

	applicationId := uuid.New()
	submittedAt := time.Now()

	queryString = "INSERT INTO adoption_schema.adoption_applications (application_id, user_id, pet_id, status, " +
		"housing_type, has_other_pets, other_pets_description, experience_with_pets, reason_for_adoption, " +
		"application_text, submitted_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"
	if _, err = tx.Exec(c, queryString, applicationId, userId, petId, schemas.ApplicationPending,
		applicationRequest.HousingType, applicationRequest.HasOtherPets, applicationRequest.OtherPetsDescription,
		applicationRequest.ExperienceWithPets, applicationRequest.ReasonForAdoption,
		applicationRequest.ApplicationText, submittedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	applicationDto := &schemas.ApplicationDTO{
		ApplicationId:        applicationId,
		PetId:                petId,
		Status:               schemas.ApplicationPending,
		HousingType:          applicationRequest.HousingType,
		HasOtherPets:         applicationRequest.HasOtherPets,
		OtherPetsDescription: applicationRequest.OtherPetsDescription,
		ExperienceWithPets:   applicationRequest.ExperienceWithPets,
		ReasonForAdoption:    applicationRequest.ReasonForAdoption,
		ApplicationText:      applicationRequest.ApplicationText,
		SubmittedAt:          submittedAt.Format(time.RFC3339),
	}

	utils.WriteAndLogResponse(c, applicationDto, http.StatusCreated)
}

// ListMyApplications returns the caller's applications, most recent first.
func (handler *ApplicationHandler) ListMyApplications(c *gin.Context) {
	claims := c.MustGet(utils.ClaimsKey.String()).(jwt.MapClaims)
	userId := claims["sub"].(string)

	offset, limit, err := utils.ParsePaginationParams(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	queryString := "SELECT " + applicationColumns + ", p.name, p.species, p.breed, p.photo_url " +
		"FROM adoption_schema.adoption_applications a " +
		"JOIN adoption_schema.pets p ON a.pet_id = p.pet_id " +
		"WHERE a.user_id = $1 ORDER BY a.submitted_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	applications := make([]schemas.ApplicationDTO, 0)
	for rows.Next() {
		application := schemas.ApplicationDTO{}
		pet := schemas.PetSummaryDTO{}
		var submittedAt, reviewedAt pgtype.Timestamptz

		if err := rows.Scan(&application.ApplicationId, &application.PetId, &application.Status,
			&application.HousingType, &application.HasOtherPets, &application.OtherPetsDescription,
			&application.ExperienceWithPets, &application.ReasonForAdoption, &application.ApplicationText,
			&submittedAt, &reviewedAt, &application.AdminNotes,
			&pet.Name, &pet.Species, &pet.Breed, &pet.PhotoURL); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		pet.PetId = application.PetId
		application.Pet = &pet
		setApplicationTimestamps(&application, submittedAt, reviewedAt)
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	subset := utils.PaginateSlice(applications, offset, limit)
	utils.SendPaginatedResponse(c, subset, offset, limit, len(applications))
}

// ListApplications returns all applications for the admin overview, with an
// optional status filter, most recent first.
func (handler *ApplicationHandler) ListApplications(c *gin.Context) {
	offset, limit, err := utils.ParsePaginationParams(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	queryString := "SELECT " + applicationColumns + ", p.name, p.species, p.breed, p.photo_url, " +
		"u.username, u.full_name, u.email, u.phone " +
		"FROM adoption_schema.adoption_applications a " +
		"JOIN adoption_schema.pets p ON a.pet_id = p.pet_id " +
		"JOIN adoption_schema.users u ON a.user_id = u.user_id"
	args := make([]interface{}, 0)

	status := c.Query(utils.StatusParamKey)
	switch status {
	case "", "all":
	case schemas.ApplicationPending, schemas.ApplicationApproved, schemas.ApplicationDenied:
		args = append(args, status)
		queryString += " WHERE a.status = $1"
	default:
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, errors.New("status invalid"))
		return
	}

	queryString += " ORDER BY a.submitted_at DESC"

	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, args...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	applications := make([]schemas.ApplicationDTO, 0)
	for rows.Next() {
		application := schemas.ApplicationDTO{}
		pet := schemas.PetSummaryDTO{}
		applicant := schemas.ApplicantDTO{}
		var submittedAt, reviewedAt pgtype.Timestamptz

		if err := rows.Scan(&application.ApplicationId, &application.PetId, &application.Status,
			&application.HousingType, &application.HasOtherPets, &application.OtherPetsDescription,
			&application.ExperienceWithPets, &application.ReasonForAdoption, &application.ApplicationText,
			&submittedAt, &reviewedAt, &application.AdminNotes,
			&pet.Name, &pet.Species, &pet.Breed, &pet.PhotoURL,
			&applicant.Username, &applicant.FullName, &applicant.Email, &applicant.Phone); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		pet.PetId = application.PetId
		application.Pet = &pet
		application.Applicant = &applicant
		setApplicationTimestamps(&application, submittedAt, reviewedAt)
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	subset := utils.PaginateSlice(applications, offset, limit)
	utils.SendPaginatedResponse(c, subset, offset, limit, len(applications))
}

// GetApplication returns a single application with pet and applicant details.
func (handler *ApplicationHandler) GetApplication(c *gin.Context) {
	applicationId, err := uuid.Parse(c.Param(utils.ApplicationIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	queryString := "SELECT " + applicationColumns + ", p.name, p.species, p.breed, p.photo_url, " +
		"u.username, u.full_name, u.email, u.phone, u.address " +
		"FROM adoption_schema.adoption_applications a " +
		"JOIN adoption_schema.pets p ON a.pet_id = p.pet_id " +
		"JOIN adoption_schema.users u ON a.user_id = u.user_id " +
		"WHERE a.application_id = $1"

	application := schemas.ApplicationDTO{}
	pet := schemas.PetSummaryDTO{}
	applicant := schemas.ApplicantDTO{}
	var submittedAt, reviewedAt pgtype.Timestamptz

	row := handler.DatabaseManager.GetPool().QueryRow(c, queryString, applicationId)
	if err := row.Scan(&application.ApplicationId, &application.PetId, &application.Status,
		&application.HousingType, &application.HasOtherPets, &application.OtherPetsDescription,
		&application.ExperienceWithPets, &application.ReasonForAdoption, &application.ApplicationText,
		&submittedAt, &reviewedAt, &application.AdminNotes,
		&pet.Name, &pet.Species, &pet.Breed, &pet.PhotoURL,
		&applicant.Username, &applicant.FullName, &applicant.Email, &applicant.Phone, &applicant.Address); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.ApplicationNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	pet.PetId = application.PetId
	application.Pet = &pet
	application.Applicant = &applicant
	setApplicationTimestamps(&application, submittedAt, reviewedAt)

	utils.WriteAndLogResponse(c, application, http.StatusOK)
}

// ReviewApplication approves or denies a pending application.
// An approval marks the pet adopted and denies every other pending
// application for the same pet inside the same transaction, so no state is
// visible in which the pet is adopted while a competing application is still
// pending. Reviewing a non-pending application is rejected.
func (handler *ApplicationHandler) ReviewApplication(c *gin.Context) {
	applicationId, err := uuid.Parse(c.Param(utils.ApplicationIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	reviewRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ReviewApplicationRequest)

	// Lock the application row, review happens at most once
	var petId uuid.UUID
	var applicationStatus string
	queryString := "SELECT pet_id, status FROM adoption_schema.adoption_applications WHERE application_id = $1 FOR UPDATE"
	row := tx.QueryRow(c, queryString, applicationId)
	if err = row.Scan(&petId, &applicationStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.ApplicationNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if applicationStatus != schemas.ApplicationPending {
		err = errors.New("application already reviewed")
		utils.WriteAndLogError(c, schemas.ApplicationAlreadyReviewed, http.StatusConflict, err)
		return
	}

	reviewedAt := time.Now()

	if reviewRequest.Action == "deny" {
		queryString = "UPDATE adoption_schema.adoption_applications SET status = $1, admin_notes = $2, reviewed_at = $3 " +
			"WHERE application_id = $4"
		if _, err = tx.Exec(c, queryString, schemas.ApplicationDenied, reviewRequest.AdminNotes, reviewedAt, applicationId); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}

		c.Status(http.StatusNoContent)
		return
	}

	// Approval: lock the pet row so concurrent approvals and submissions
	// for the same pet serialize against this transaction
	var petStatus string
	queryString = "SELECT status FROM adoption_schema.pets WHERE pet_id = $1 FOR UPDATE"
	row = tx.QueryRow(c, queryString, petId)
	if err = row.Scan(&petStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.PetNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if petStatus != schemas.PetAvailable {
		err = errors.New("pet not available")
		utils.WriteAndLogError(c, schemas.PetNotAvailable, http.StatusConflict, err)
		return
	}

	queryString = "UPDATE adoption_schema.adoption_applications SET status = $1, admin_notes = $2, reviewed_at = $3 " +
		"WHERE application_id = $4"
	if _, err = tx.Exec(c, queryString, schemas.ApplicationApproved, reviewRequest.AdminNotes, reviewedAt, applicationId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE adoption_schema.pets SET status = $1 WHERE pet_id = $2"
	if _, err = tx.Exec(c, queryString, schemas.PetAdopted, petId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Cascade-deny every other pending application for this pet
	queryString = "UPDATE adoption_schema.adoption_applications SET status = $1, admin_notes = $2, reviewed_at = $3 " +
		"WHERE pet_id = $4 AND status = $5 AND application_id != $6"
	if _, err = tx.Exec(c, queryString, schemas.ApplicationDenied, schemas.CascadeDenyNote, reviewedAt, petId,
		schemas.ApplicationPending, applicationId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAdminStats returns the dashboard counts.
func (handler *ApplicationHandler) GetAdminStats(c *gin.Context) {
	pool := handler.DatabaseManager.GetPool()
	stats := schemas.StatsDTO{}

	queries := []struct {
		queryString string
		target      *int
	}{
		{"SELECT COUNT(*) FROM adoption_schema.pets", &stats.TotalPets},
		{"SELECT COUNT(*) FROM adoption_schema.pets WHERE status = 'available'", &stats.AvailablePets},
		{"SELECT COUNT(*) FROM adoption_schema.adoption_applications WHERE status = 'pending'", &stats.PendingApplications},
		{"SELECT COUNT(*) FROM adoption_schema.users WHERE role = 'adopter'", &stats.TotalAdopters},
	}

	for _, query := range queries {
		row := pool.QueryRow(c, query.queryString)
		if err := row.Scan(query.target); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
	}

	utils.WriteAndLogResponse(c, stats, http.StatusOK)
}

func setApplicationTimestamps(application *schemas.ApplicationDTO, submittedAt, reviewedAt pgtype.Timestamptz) {
	application.SubmittedAt = submittedAt.Time.Format(time.RFC3339)
	if reviewedAt.Valid {
		formatted := reviewedAt.Time.Format(time.RFC3339)
		application.ReviewedAt = &formatted
	}
}
