package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"adoption-server/internal/managers"
	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
)

// PetHdl defines the handlers for public pet browsing and admin pet management.
type PetHdl interface {
	ListPets(c *gin.Context)
	ListAllPets(c *gin.Context)
	GetPet(c *gin.Context)
	CreatePet(c *gin.Context)
	UpdatePet(c *gin.Context)
	DeletePet(c *gin.Context)
}

type PetHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewPetHandler(databaseManager *managers.DatabaseMgr) PetHdl {
	return &PetHandler{
		DatabaseManager: *databaseManager,
	}
}

const petColumns = "pet_id, name, species, breed, age, gender, size, description, special_needs, " +
	"vaccination_status, photo_url, location, status, created_at"

// ListPets returns the available pets matching the filter query parameters.
// Species, breed and location match as case-insensitive substrings, age as an
// inclusive range and size exactly. An absent parameter applies no constraint.
func (handler *PetHandler) ListPets(c *gin.Context) {
	offset, limit, err := utils.ParsePaginationParams(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	queryString := "SELECT " + petColumns + " FROM adoption_schema.pets WHERE status = 'available'"
	args := make([]interface{}, 0)

	if species := c.Query(utils.SpeciesParamKey); species != "" {
		args = append(args, "%"+species+"%")
		queryString += fmt.Sprintf(" AND species ILIKE $%d", len(args))
	}
	if breed := c.Query(utils.BreedParamKey); breed != "" {
		args = append(args, "%"+breed+"%")
		queryString += fmt.Sprintf(" AND breed ILIKE $%d", len(args))
	}
	if ageMin := c.Query(utils.AgeMinParamKey); ageMin != "" {
		age, err := strconv.Atoi(ageMin)
		if err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		args = append(args, age)
		queryString += fmt.Sprintf(" AND age >= $%d", len(args))
	}
	if ageMax := c.Query(utils.AgeMaxParamKey); ageMax != "" {
		age, err := strconv.Atoi(ageMax)
		if err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		args = append(args, age)
		queryString += fmt.Sprintf(" AND age <= $%d", len(args))
	}
	if size := c.Query(utils.SizeParamKey); size != "" {
		args = append(args, size)
		queryString += fmt.Sprintf(" AND size = $%d", len(args))
	}
	if location := c.Query(utils.LocationParamKey); location != "" {
		args = append(args, "%"+location+"%")
		queryString += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}

	queryString += " ORDER BY created_at DESC"

	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, args...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	pets := make([]schemas.PetDTO, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	subset := utils.PaginateSlice(pets, offset, limit)
	utils.SendPaginatedResponse(c, subset, offset, limit, len(pets))
}

// ListAllPets returns every pet regardless of status for the admin
// inventory, so adopted pets stay reachable for edits and deletion.
func (handler *PetHandler) ListAllPets(c *gin.Context) {
	offset, limit, err := utils.ParsePaginationParams(c)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	queryString := "SELECT " + petColumns + " FROM adoption_schema.pets ORDER BY created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	pets := make([]schemas.PetDTO, 0)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	subset := utils.PaginateSlice(pets, offset, limit)
	utils.SendPaginatedResponse(c, subset, offset, limit, len(pets))
}

// GetPet returns a single pet regardless of its status.
func (handler *PetHandler) GetPet(c *gin.Context) {
	petId, err := uuid.Parse(c.Param(utils.PetIdKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	queryString := "SELECT " + petColumns + " FROM adoption_schema.pets WHERE pet_id = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(c, queryString, petId)
	pet, err := scanPet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.PetNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, pet, http.StatusOK)
}

// CreatePet inserts a new pet with status available.
func (handler *PetHandler) CreatePet(c *gin.Context) {
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	createPetRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreatePetRequest)

	petId := uuid.New()
	createdAt := time.Now()

	queryString := "INSERT INTO adoption_schema.pets (pet_id, name, species, breed, age, gender, size, description, " +
		"special_needs, vaccination_status, photo_url, location, status, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)"
	if _, err = tx.Exec(c, queryString, petId, createPetRequest.Name, createPetRequest.Species, createPetRequest.Breed,
		*createPetRequest.Age, createPetRequest.Gender, createPetRequest.Size, createPetRequest.Description,
		createPetRequest.SpecialNeeds, createPetRequest.VaccinationStatus, createPetRequest.PhotoURL,
		createPetRequest.Location, schemas.PetAvailable, createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	petDto := &schemas.PetDTO{
		PetId:             petId,
		Name:              createPetRequest.Name,
		Species:           createPetRequest.Species,
		Breed:             createPetRequest.Breed,
		Age:               *createPetRequest.Age,
		Gender:            createPetRequest.Gender,
		Size:              createPetRequest.Size,
		Description:       createPetRequest.Description,
		SpecialNeeds:      createPetRequest.SpecialNeeds,
		VaccinationStatus: createPetRequest.VaccinationStatus,
		PhotoURL:          createPetRequest.PhotoURL,
		Location:          createPetRequest.Location,
		Status:            schemas.PetAvailable,
		CreatedAt:         createdAt.Format(time.RFC3339),
	}

	utils.WriteAndLogResponse(c, petDto, http.StatusCreated)
}

// UpdatePet overwrites the fields of an existing pet.
func (handler *PetHandler) UpdatePet(c *gin.Context) {
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

	updatePetRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdatePetRequest)

	queryString := "UPDATE adoption_schema.pets SET name = $1, species = $2, breed = $3, age = $4, gender = $5, " +
		"size = $6, description = $7, special_needs = $8, vaccination_status = $9, photo_url = $10, location = $11, " +
		"status = $12 WHERE pet_id = $13"
	commandTag, err := tx.Exec(c, queryString, updatePetRequest.Name, updatePetRequest.Species, updatePetRequest.Breed,
		*updatePetRequest.Age, updatePetRequest.Gender, updatePetRequest.Size, updatePetRequest.Description,
		updatePetRequest.SpecialNeeds, updatePetRequest.VaccinationStatus, updatePetRequest.PhotoURL,
		updatePetRequest.Location, updatePetRequest.Status, petId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("pet not found")
		utils.WriteAndLogError(c, schemas.PetNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePet removes a pet and its applications in one transaction.
func (handler *PetHandler) DeletePet(c *gin.Context) {
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

	queryString := "DELETE FROM adoption_schema.adoption_applications WHERE pet_id = $1"
	if _, err = tx.Exec(c, queryString, petId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM adoption_schema.pets WHERE pet_id = $1"
	commandTag, err := tx.Exec(c, queryString, petId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("pet not found")
		utils.WriteAndLogError(c, schemas.PetNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

func scanPet(row pgx.Row) (schemas.PetDTO, error) {
	pet := schemas.PetDTO{}
	var createdAt pgtype.Timestamptz

	if err := row.Scan(&pet.PetId, &pet.Name, &pet.Species, &pet.Breed, &pet.Age, &pet.Gender, &pet.Size,
		&pet.Description, &pet.SpecialNeeds, &pet.VaccinationStatus, &pet.PhotoURL, &pet.Location, &pet.Status,
		&createdAt); err != nil {
		return pet, err
	}

	pet.CreatedAt = createdAt.Time.Format(time.RFC3339)
	return pet, nil
}
