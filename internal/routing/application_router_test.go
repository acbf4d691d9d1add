package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"adoption-server/internal/schemas"
)

var applicationColumnNames = []string{"application_id", "pet_id", "status", "housing_type", "has_other_pets",
	"other_pets_description", "experience_with_pets", "reason_for_adoption", "application_text",
	"submitted_at", "reviewed_at", "admin_notes"}

var validApplicationRequest = map[string]interface{}{
	"housingType":        "apartment",
	"hasOtherPets":       false,
	"experienceWithPets": "Grew up with dogs",
	"reasonForAdoption":  "Looking for a companion",
}

func TestSubmitApplication(t *testing.T) {
	petId := uuid.New()
	adopterId := uuid.New().String()
	adminId := uuid.New().String()

	testCases := []struct {
		name         string
		role         string
		status       int
		responseBody map[string]interface{}
	}{
		{"ValidApplication", schemas.RoleAdopter, http.StatusCreated, nil},
		{"AdminCannotApply", schemas.RoleAdmin, http.StatusForbidden, errorBody(schemas.AdminCannotApply)},
		{"PetNotFound", schemas.RoleAdopter, http.StatusNotFound, errorBody(schemas.PetNotFound)},
		{"PetNotAvailable", schemas.RoleAdopter, http.StatusConflict, errorBody(schemas.PetNotAvailable)},
		{"DuplicatePending", schemas.RoleAdopter, http.StatusConflict, errorBody(schemas.ApplicationAlreadyPending)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			userId := adopterId
			switch tc.name {
			case "AdminCannotApply":
				userId = adminId
			case "PetNotFound":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT status FROM adoption_schema.pets").WithArgs(petId).
					WillReturnError(pgx.ErrNoRows)
				poolMock.ExpectRollback()
			case "PetNotAvailable":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT status FROM adoption_schema.pets").WithArgs(petId).
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("adopted"))
				poolMock.ExpectRollback()
			case "DuplicatePending":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT status FROM adoption_schema.pets").WithArgs(petId).
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("available"))
				poolMock.ExpectQuery("SELECT application_id FROM adoption_schema.adoption_applications").
					WithArgs(userId, petId).
					WillReturnRows(pgxmock.NewRows([]string{"application_id"}).AddRow(uuid.New()))
				poolMock.ExpectRollback()
			default:
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT status FROM adoption_schema.pets").WithArgs(petId).
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("available"))
				poolMock.ExpectQuery("SELECT application_id FROM adoption_schema.adoption_applications").
					WithArgs(userId, petId).
					WillReturnRows(pgxmock.NewRows([]string{"application_id"}))
				poolMock.ExpectExec("INSERT INTO adoption_schema.adoption_applications").
					WithArgs(pgxmock.AnyArg(), userId, petId, "pending", "apartment", false, "",
						"Grew up with dogs", "Looking for a companion", "", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			token := generateTestToken(t, jwtMgr, userId, "someUser", tc.role)

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/pets/"+petId.String()+"/applications").
				WithHeader("Authorization", "Bearer "+token).
				WithJSON(validApplicationRequest).Expect().Status(tc.status)

			if tc.responseBody != nil {
				response.JSON().IsEqual(tc.responseBody)
			} else {
				responseObject := response.JSON().Object()
				responseObject.HasValue("status", "pending")
				responseObject.HasValue("petId", petId.String())
				responseObject.Value("reviewedAt").IsNull()
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestReviewApplication(t *testing.T) {
	petId := uuid.New()
	applicationId := uuid.New()
	adminId := uuid.New().String()

	testCases := []struct {
		name         string
		action       string
		status       int
		responseBody map[string]interface{}
	}{
		{"ApproveWithCascade", "approve", http.StatusNoContent, nil},
		{"Deny", "deny", http.StatusNoContent, nil},
		{"AlreadyReviewed", "approve", http.StatusConflict, errorBody(schemas.ApplicationAlreadyReviewed)},
		{"UnknownApplication", "approve", http.StatusNotFound, errorBody(schemas.ApplicationNotFound)},
		{"PetNoLongerAvailable", "approve", http.StatusConflict, errorBody(schemas.PetNotAvailable)},
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
			case "ApproveWithCascade":
				poolMock.ExpectQuery("SELECT pet_id, status FROM adoption_schema.adoption_applications").
					WithArgs(applicationId).
					WillReturnRows(pgxmock.NewRows([]string{"pet_id", "status"}).AddRow(petId, "pending"))
				poolMock.ExpectQuery("SELECT status FROM adoption_schema.pets").WithArgs(petId).
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("available"))
				poolMock.ExpectExec("UPDATE adoption_schema.adoption_applications").
					WithArgs("approved", "Great fit", pgxmock.AnyArg(), applicationId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectExec("UPDATE adoption_schema.pets").WithArgs("adopted", petId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectExec("UPDATE adoption_schema.adoption_applications").
					WithArgs("denied", schemas.CascadeDenyNote, pgxmock.AnyArg(), petId, "pending", applicationId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 2))
				poolMock.ExpectCommit()
			case "Deny":
				poolMock.ExpectQuery("SELECT pet_id, status FROM adoption_schema.adoption_applications").
					WithArgs(applicationId).
					WillReturnRows(pgxmock.NewRows([]string{"pet_id", "status"}).AddRow(petId, "pending"))
				poolMock.ExpectExec("UPDATE adoption_schema.adoption_applications").
					WithArgs("denied", "Great fit", pgxmock.AnyArg(), applicationId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectCommit()
			case "AlreadyReviewed":
				poolMock.ExpectQuery("SELECT pet_id, status FROM adoption_schema.adoption_applications").
					WithArgs(applicationId).
					WillReturnRows(pgxmock.NewRows([]string{"pet_id", "status"}).AddRow(petId, "approved"))
				poolMock.ExpectRollback()
			case "UnknownApplication":
				poolMock.ExpectQuery("SELECT pet_id, status FROM adoption_schema.adoption_applications").
					WithArgs(applicationId).
					WillReturnError(pgx.ErrNoRows)
				poolMock.ExpectRollback()
			case "PetNoLongerAvailable":
				poolMock.ExpectQuery("SELECT pet_id, status FROM adoption_schema.adoption_applications").
					WithArgs(applicationId).
					WillReturnRows(pgxmock.NewRows([]string{"pet_id", "status"}).AddRow(petId, "pending"))
				poolMock.ExpectQuery("SELECT status FROM adoption_schema.pets").WithArgs(petId).
					WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("adopted"))
				poolMock.ExpectRollback()
			}

			token := generateTestToken(t, jwtMgr, adminId, "admin", schemas.RoleAdmin)

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/admin/applications/"+applicationId.String()+"/review").
				WithHeader("Authorization", "Bearer "+token).
				WithJSON(map[string]interface{}{
					"action":     tc.action,
					"adminNotes": "Great fit",
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

func TestReviewApplicationRequiresAdmin(t *testing.T) {
	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

	server := httptest.NewServer(router)
	defer server.Close()

	token := generateTestToken(t, jwtMgr, uuid.New().String(), "someUser", schemas.RoleAdopter)

	expect := httpexpect.Default(t, server.URL)
	response := expect.POST("/api/admin/applications/"+uuid.New().String()+"/review").
		WithHeader("Authorization", "Bearer "+token).
		WithJSON(map[string]interface{}{"action": "approve"}).
		Expect().Status(http.StatusForbidden)
	response.JSON().IsEqual(errorBody(schemas.Forbidden))
}

func TestListMyApplications(t *testing.T) {
	petId := uuid.New()
	applicationId := uuid.New()
	adopterId := uuid.New().String()
	reviewedAt := time.Now()

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	columns := append(append([]string{}, applicationColumnNames...), "name", "species", "breed", "photo_url")
	poolMock.ExpectQuery("SELECT a.application_id, a.pet_id").WithArgs(adopterId).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(applicationId, petId, "approved", "apartment", false, "", "Grew up with dogs",
				"Looking for a companion", "", time.Now(), reviewedAt, "Great fit",
				"Rex", "Dog", "Labrador", ""))

	token := generateTestToken(t, jwtMgr, adopterId, "someUser", schemas.RoleAdopter)

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/applications").WithHeader("Authorization", "Bearer "+token).
		Expect().Status(http.StatusOK)

	records := response.JSON().Object().Value("records").Array()
	records.Length().IsEqual(1)
	record := records.Value(0).Object()
	record.HasValue("applicationId", applicationId.String())
	record.HasValue("status", "approved")
	record.Value("reviewedAt").NotNull()
	record.Value("pet").Object().HasValue("name", "Rex")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestListApplicationsStatusFilter(t *testing.T) {
	adminId := uuid.New().String()

	testCases := []struct {
		name   string
		filter string
		status int
	}{
		{"FilterPending", "pending", http.StatusOK},
		{"FilterInvalid", "archived", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			if tc.status == http.StatusOK {
				columns := append(append([]string{}, applicationColumnNames...),
					"name", "species", "breed", "photo_url", "username", "full_name", "email", "phone")
				poolMock.ExpectQuery("SELECT a.application_id, a.pet_id").WithArgs("pending").
					WillReturnRows(pgxmock.NewRows(columns))
			}

			token := generateTestToken(t, jwtMgr, adminId, "admin", schemas.RoleAdmin)

			expect := httpexpect.Default(t, server.URL)
			response := expect.GET("/api/admin/applications").WithQuery("status", tc.filter).
				WithHeader("Authorization", "Bearer "+token).
				Expect().Status(tc.status)

			if tc.status == http.StatusOK {
				response.JSON().Object().Value("records").Array().Length().IsEqual(0)
			} else {
				response.JSON().IsEqual(errorBody(schemas.BadRequest))
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestGetApplication(t *testing.T) {
	petId := uuid.New()
	applicationId := uuid.New()
	adminId := uuid.New().String()

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	columns := append(append([]string{}, applicationColumnNames...),
		"name", "species", "breed", "photo_url", "username", "full_name", "email", "phone", "address")
	poolMock.ExpectQuery("SELECT a.application_id, a.pet_id").WithArgs(applicationId).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(applicationId, petId, "pending", "apartment", false, "", "Grew up with dogs",
				"Looking for a companion", "", time.Now(), nil, "",
				"Rex", "Dog", "Labrador", "", "testUser", "Test User", "test@example.com", "123456", "Test Street 1"))

	token := generateTestToken(t, jwtMgr, adminId, "admin", schemas.RoleAdmin)

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/admin/applications/"+applicationId.String()).
		WithHeader("Authorization", "Bearer "+token).
		Expect().Status(http.StatusOK)

	responseObject := response.JSON().Object()
	responseObject.HasValue("applicationId", applicationId.String())
	responseObject.Value("reviewedAt").IsNull()
	responseObject.Value("applicant").Object().HasValue("username", "testUser")
	responseObject.Value("applicant").Object().HasValue("address", "Test Street 1")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetAdminStats(t *testing.T) {
	adminId := uuid.New().String()

	databaseMgrMock, jwtMgr, mailMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtMgr)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	counts := []int{12, 7, 3, 25}
	for _, count := range counts {
		poolMock.ExpectQuery("SELECT COUNT").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(count))
	}

	token := generateTestToken(t, jwtMgr, adminId, "admin", schemas.RoleAdmin)

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/admin/stats").WithHeader("Authorization", "Bearer "+token).
		Expect().Status(http.StatusOK)

	response.JSON().IsEqual(map[string]interface{}{
		"totalPets":           12,
		"availablePets":       7,
		"pendingApplications": 3,
		"totalAdopters":       25,
	})

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
