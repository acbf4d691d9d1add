package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"adoption-server/internal/managers"
	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
	"adoption-server/internal/validators"
)

// UserHdl defines the handlers for registration, login and password resets.
type UserHdl interface {
	RegisterUser(c *gin.Context)
	LoginUser(c *gin.Context)
	RequestPasswordReset(c *gin.Context)
	SetNewPassword(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	Validator       *validators.Validator
	// strictLoginErrors collapses unknown-account and wrong-password into a
	// single InvalidCredentials answer when set.
	strictLoginErrors bool
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr) UserHdl {
	return &UserHandler{
		DatabaseManager:   *databaseManager,
		JWTManager:        *jwtManager,
		MailManager:       *mailManager,
		Validator:         validators.GetValidator(),
		strictLoginErrors: os.Getenv("STRICT_LOGIN_ERRORS") == "true",
	}
}

// resetTokenLifetime is the absolute validity window of a password reset token.
const resetTokenLifetime = time.Hour

// RegisterUser creates a new adopter account.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	registrationRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)
	email := strings.ToLower(registrationRequest.Email)

	// Check if the username or email is taken
	if err = checkUsernameEmailTaken(c, tx, registrationRequest.Username, email); err != nil {
		return
	}

	// Check if the email exists
	if !handler.Validator.VerifyEmail(email) {
		err = errors.New("email unreachable")
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Insert the user into the database
	userId := uuid.New()
	createdAt := time.Now()

	queryString := "INSERT INTO adoption_schema.users (user_id, username, email, password, role, full_name, phone, address, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)"
	if _, err = tx.Exec(c, queryString, userId, registrationRequest.Username, email, hashedPassword,
		schemas.RoleAdopter, registrationRequest.FullName, registrationRequest.Phone, registrationRequest.Address, createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	userDto := &schemas.UserDTO{
		Username: registrationRequest.Username,
		Email:    email,
		FullName: registrationRequest.FullName,
		Role:     schemas.RoleAdopter,
	}

	utils.WriteAndLogResponse(c, userDto, http.StatusCreated)
}

// LoginUser verifies the credentials and returns a session token.
// The identifier matches the username exactly or the email case-insensitively.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	loginRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	var userId uuid.UUID
	var username, password, role string

	queryString := "SELECT user_id, username, password, role FROM adoption_schema.users WHERE username = $1 OR email = $2"
	row := handler.DatabaseManager.GetPool().QueryRow(c, queryString, loginRequest.Identifier, strings.ToLower(loginRequest.Identifier))
	if err := row.Scan(&userId, &username, &password, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if handler.strictLoginErrors {
				utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
			} else {
				utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			}
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	claims := handler.JWTManager.GenerateClaims(userId.String(), username, role)
	token, err := handler.JWTManager.GenerateJWT(claims)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tokenDto := &schemas.TokenDTO{
		Token: token,
	}

	utils.WriteAndLogResponse(c, tokenDto, http.StatusOK)
}

// RequestPasswordReset issues a fresh single-use reset token for the account
// behind the given email. The response does not reveal whether the email is
// known.
func (handler *UserHandler) RequestPasswordReset(c *gin.Context) {
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	resetRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.PasswordResetRequest)

	var userId uuid.UUID
	var username, fullName string

	queryString := "SELECT user_id, username, full_name FROM adoption_schema.users WHERE email = $1"
	row := tx.QueryRow(c, queryString, strings.ToLower(resetRequest.Email))
	if err = row.Scan(&userId, &username, &fullName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown email, respond as if a mail was sent
			if err = utils.CommitTransaction(c, tx); err != nil {
				return
			}
			c.Status(http.StatusNoContent)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Regenerating invalidates any prior token
	queryString = "DELETE FROM adoption_schema.password_reset_tokens WHERE user_id = $1"
	if _, err = tx.Exec(c, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token := uuid.New().String()
	tokenId := uuid.New()
	expiresAt := time.Now().Add(resetTokenLifetime)

	queryString = "INSERT INTO adoption_schema.password_reset_tokens (token_id, user_id, token, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(c, queryString, tokenId, userId, token, expiresAt, time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	name := fullName
	if name == "" {
		name = username
	}
	if err = handler.MailManager.SendPasswordResetMail(strings.ToLower(resetRequest.Email), name, token); err != nil {
		utils.WriteAndLogError(c, schemas.EmailNotSent, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// SetNewPassword consumes a reset token and replaces the account password.
func (handler *UserHandler) SetNewPassword(c *gin.Context) {
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(c, tx, err)
	}()

	setPasswordRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.SetNewPasswordRequest)

	var userId uuid.UUID
	var expiresAt pgtype.Timestamptz

	// Lock the token row so a token can only be consumed once
	queryString := "SELECT user_id, expires_at FROM adoption_schema.password_reset_tokens WHERE token = $1 FOR UPDATE"
	row := tx.QueryRow(c, queryString, setPasswordRequest.Token)
	if err = row.Scan(&userId, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.ResetTokenNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if time.Now().After(expiresAt.Time) {
		err = errors.New("reset token expired")
		utils.WriteAndLogError(c, schemas.ResetTokenExpired, http.StatusUnauthorized, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(setPasswordRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE adoption_schema.users SET password = $1 WHERE user_id = $2"
	if _, err = tx.Exec(c, queryString, hashedPassword, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// The token is single-use
	queryString = "DELETE FROM adoption_schema.password_reset_tokens WHERE token = $1"
	if _, err = tx.Exec(c, queryString, setPasswordRequest.Token); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

func checkUsernameEmailTaken(c *gin.Context, tx pgx.Tx, username, email string) error {
	queryString := "SELECT username, email FROM adoption_schema.users WHERE username = $1 OR email = $2"
	rows, err := tx.Query(c, queryString, username, email)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		var foundUsername string
		var foundEmail string

		if err := rows.Scan(&foundUsername, &foundEmail); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return err
		}

		customErr := schemas.EmailTaken
		if foundUsername == username {
			customErr = schemas.UsernameTaken
		}

		err = errors.New("username or email taken")
		utils.WriteAndLogError(c, customErr, http.StatusConflict, err)
		return err
	}

	return nil
}
