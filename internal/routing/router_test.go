package routing

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"adoption-server/internal/managers"
	"adoption-server/internal/managers/mocks"
	"adoption-server/internal/schemas"
	"adoption-server/internal/validators"
)

func setupMocks(t *testing.T) (*mocks.MockDatabaseManager, managers.JWTMgr, *mocks.MockMailManager) {
	t.Helper()

	poolMock, err := pgxmock.NewPool()
	if err != nil {
		log.Errorf("Error creating mock database pool: %v", err)
	}

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	t.Setenv("ENVIRONMENT", "test")
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Errorf("Error generating key pair: %v", err)
	}
	jwtMgr := managers.NewJWTManager(privateKey, publicKey)

	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendPasswordResetMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"),
		mock.AnythingOfType("string")).Return(nil)

	// Mailbox verification goes out to DNS, stub it for tests
	validators.GetValidator().VerifyEmail = func(string) bool { return true }

	return databaseMgrMock, jwtMgr, mailMgrMock
}

func generateTestToken(t *testing.T, jwtMgr managers.JWTMgr, userId, username, role string) string {
	t.Helper()

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(userId, username, role))
	if err != nil {
		t.Fatalf("error generating test token: %v", err)
	}
	return token
}

func errorBody(customErr *schemas.CustomError) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    customErr.Code,
			"message": customErr.Message,
		},
	}
}

func TestUserRegistration(t *testing.T) {
	validRequest := map[string]interface{}{
		"username": "testUser",
		"email":    "Test@Example.com",
		"password": "test.Password123",
		"fullName": "Test User",
		"phone":    "123456",
		"address":  "Test Street 1",
	}

	testCases := []struct {
		name         string
		request      map[string]interface{}
		status       int
		responseBody map[string]interface{}
	}{
		{
			"ValidRegistration",
			validRequest,
			http.StatusCreated,
			map[string]interface{}{
				"username": "testUser",
				"email":    "test@example.com",
				"fullName": "Test User",
				"role":     "adopter",
			},
		},
		{
			"InvalidEmail",
			map[string]interface{}{
				"username": "testUser",
				"email":    "test@example@.com",
				"password": "test.Password123",
			},
			http.StatusBadRequest,
			errorBody(schemas.BadRequest),
		},
		{
			"DuplicateUsername",
			validRequest,
			http.StatusConflict,
			errorBody(schemas.UsernameTaken),
		},
		{
			"DuplicateEmail",
			map[string]interface{}{
				"username": "otherUser",
				"email":    "Test@Example.com",
				"password": "test.Password123",
			},
			http.StatusConflict,
			errorBody(schemas.EmailTaken),
		},
		{
			"UnreachableEmail",
			validRequest,
			http.StatusBadRequest,
			errorBody(schemas.EmailUnreachable),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			switch tc.name {
			case "InvalidEmail":
			case "DuplicateUsername":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT username, email").WithArgs("testUser", "test@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"username", "email"}).AddRow("testUser", "other@example.com"))
				poolMock.ExpectRollback()
			case "DuplicateEmail":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT username, email").WithArgs("otherUser", "test@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"username", "email"}).AddRow("testUser", "test@example.com"))
				poolMock.ExpectRollback()
			case "UnreachableEmail":
				validators.GetValidator().VerifyEmail = func(string) bool { return false }
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT username, email").WithArgs("testUser", "test@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"username", "email"}))
				poolMock.ExpectRollback()
			default:
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT username, email").WithArgs("testUser", "test@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"username", "email"}))
				poolMock.ExpectExec("INSERT INTO adoption_schema.users").
					WithArgs(pgxmock.AnyArg(), "testUser", "test@example.com", pgxmock.AnyArg(), "adopter",
						"Test User", "123456", "Test Street 1", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/users").WithJSON(tc.request).Expect().Status(tc.status)
			response.JSON().IsEqual(tc.responseBody)

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestUserLogin(t *testing.T) {
	userId := uuid.New()
	password := "test.Password123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	testCases := []struct {
		name       string
		identifier string
		password   string
		status     int
	}{
		{"ValidLogin", "testUser", password, http.StatusOK},
		{"ValidLoginByEmail", "Test@Example.com", password, http.StatusOK},
		{"WrongPassword", "testUser", "wrong.Password123", http.StatusUnauthorized},
		{"UnknownUser", "ghostUser", password, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			switch tc.name {
			case "UnknownUser":
				poolMock.ExpectQuery("SELECT user_id, username, password, role").
					WithArgs(tc.identifier, "ghostuser").
					WillReturnError(pgx.ErrNoRows)
			case "ValidLoginByEmail":
				poolMock.ExpectQuery("SELECT user_id, username, password, role").
					WithArgs(tc.identifier, "test@example.com").
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "password", "role"}).
						AddRow(userId, "testUser", string(hash), "adopter"))
			default:
				poolMock.ExpectQuery("SELECT user_id, username, password, role").
					WithArgs(tc.identifier, "testuser").
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "password", "role"}).
						AddRow(userId, "testUser", string(hash), "adopter"))
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/users/login").WithJSON(map[string]interface{}{
				"identifier": tc.identifier,
				"password":   tc.password,
			}).Expect().Status(tc.status)

			if tc.status == http.StatusOK {
				response.JSON().Object().Value("token").String().NotEmpty()
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestUserLoginStrictErrors(t *testing.T) {
	t.Setenv("STRICT_LOGIN_ERRORS", "true")

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	poolMock.ExpectQuery("SELECT user_id, username, password, role").
		WithArgs("ghostUser", "ghostuser").
		WillReturnError(pgx.ErrNoRows)

	// Unknown accounts are indistinguishable from wrong passwords in strict mode
	expect := httpexpect.Default(t, server.URL)
	response := expect.POST("/api/users/login").WithJSON(map[string]interface{}{
		"identifier": "ghostUser",
		"password":   "test.Password123",
	}).Expect().Status(http.StatusUnauthorized)
	response.JSON().IsEqual(errorBody(schemas.InvalidCredentials))

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPasswordResetRequest(t *testing.T) {
	userId := uuid.New()

	testCases := []struct {
		name  string
		email string
	}{
		{"KnownEmail", "test@example.com"},
		{"UnknownEmail", "ghost@example.com"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			if tc.name == "KnownEmail" {
				poolMock.ExpectQuery("SELECT user_id, username, full_name").WithArgs(tc.email).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "full_name"}).
						AddRow(userId, "testUser", "Test User"))
				poolMock.ExpectExec("DELETE FROM adoption_schema.password_reset_tokens").WithArgs(userId).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				poolMock.ExpectExec("INSERT INTO adoption_schema.password_reset_tokens").
					WithArgs(pgxmock.AnyArg(), userId, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			} else {
				poolMock.ExpectQuery("SELECT user_id, username, full_name").WithArgs(tc.email).
					WillReturnError(pgx.ErrNoRows)
			}
			poolMock.ExpectCommit()

			// The response never reveals whether the email exists
			expect := httpexpect.Default(t, server.URL)
			expect.POST("/api/users/reset-password").WithJSON(map[string]interface{}{
				"email": tc.email,
			}).Expect().Status(http.StatusNoContent)

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}

			if tc.name == "KnownEmail" {
				mailMgrMock.AssertCalled(t, "SendPasswordResetMail", tc.email, "Test User", mock.AnythingOfType("string"))
			} else {
				mailMgrMock.AssertNotCalled(t, "SendPasswordResetMail", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPasswordResetConfirm(t *testing.T) {
	userId := uuid.New()
	token := uuid.New().String()

	testCases := []struct {
		name         string
		status       int
		responseBody map[string]interface{}
	}{
		{"ValidToken", http.StatusNoContent, nil},
		{"ExpiredToken", http.StatusUnauthorized, errorBody(schemas.ResetTokenExpired)},
		{"UnknownToken", http.StatusNotFound, errorBody(schemas.ResetTokenNotFound)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			switch tc.name {
			case "ValidToken":
				poolMock.ExpectQuery("SELECT user_id, expires_at").WithArgs(token).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "expires_at"}).
						AddRow(userId, time.Now().Add(30*time.Minute)))
				poolMock.ExpectExec("UPDATE adoption_schema.users SET password").
					WithArgs(pgxmock.AnyArg(), userId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectExec("DELETE FROM adoption_schema.password_reset_tokens").WithArgs(token).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				poolMock.ExpectCommit()
			case "ExpiredToken":
				poolMock.ExpectQuery("SELECT user_id, expires_at").WithArgs(token).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "expires_at"}).
						AddRow(userId, time.Now().Add(-time.Minute)))
				poolMock.ExpectRollback()
			case "UnknownToken":
				poolMock.ExpectQuery("SELECT user_id, expires_at").WithArgs(token).
					WillReturnError(pgx.ErrNoRows)
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/users/reset-password/confirm").WithJSON(map[string]interface{}{
				"token":       token,
				"newPassword": "new.Password123",
			}).Expect().Status(tc.status)

			if tc.responseBody != nil {
				response.JSON().IsEqual(tc.responseBody)
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}
