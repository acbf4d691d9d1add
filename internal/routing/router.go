package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"adoption-server/internal/handlers"
	"adoption-server/internal/managers"
	"adoption-server/internal/middleware"
	"adoption-server/internal/schemas"
	"adoption-server/internal/utils"
)

// InitRouter builds the gin engine with the common middleware chain and all
// API routes.
func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr) *gin.Engine {
	router := gin.New()
	setupCommonMiddleware(router)
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:19000"},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept, Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("API_VERSION")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Pet Adoption Server",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up user routes
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr)
		userRoutes(userRouter, userHdl)

		// Set up pet routes
		petRouter := apiRouter.Group("/pets")
		petHdl := handlers.NewPetHandler(&databaseMgr)
		applicationHdl := handlers.NewApplicationHandler(&databaseMgr)
		petRoutes(petRouter, petHdl, applicationHdl, jwtMgr)

		// Set up application routes
		applicationRouter := apiRouter.Group("/applications")
		applicationRouter.Use(jwtMgr.JWTMiddleware())
		applicationRouter.GET("", applicationHdl.ListMyApplications)

		// Set up admin routes
		adminRouter := apiRouter.Group("/admin")
		adminRouter.Use(jwtMgr.JWTMiddleware(), middleware.RequireAdmin())
		adminRoutes(adminRouter, petHdl, applicationHdl)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl) {
	userRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	userRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
	userRouter.POST("/reset-password", middleware.ValidateAndSanitizeStruct(&schemas.PasswordResetRequest{}), userHdl.RequestPasswordReset)
	userRouter.POST("/reset-password/confirm", middleware.ValidateAndSanitizeStruct(&schemas.SetNewPasswordRequest{}), userHdl.SetNewPassword)
}

func petRoutes(petRouter *gin.RouterGroup, petHdl handlers.PetHdl, applicationHdl handlers.ApplicationHdl, jwtMgr managers.JWTMgr) {
	petRouter.GET("", petHdl.ListPets)
	petRouter.GET("/:petId", petHdl.GetPet)
	// The following routes require the user to be authenticated
	petRouter.Use(jwtMgr.JWTMiddleware())
	petRouter.POST("/:petId/applications", middleware.ValidateAndSanitizeStruct(&schemas.CreateApplicationRequest{}), applicationHdl.SubmitApplication)
	// The following routes additionally require the admin role
	petRouter.Use(middleware.RequireAdmin())
	petRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreatePetRequest{}), petHdl.CreatePet)
	petRouter.PUT("/:petId", middleware.ValidateAndSanitizeStruct(&schemas.UpdatePetRequest{}), petHdl.UpdatePet)
	petRouter.DELETE("/:petId", petHdl.DeletePet)
}

func adminRoutes(adminRouter *gin.RouterGroup, petHdl handlers.PetHdl, applicationHdl handlers.ApplicationHdl) {
	adminRouter.GET("/pets", petHdl.ListAllPets)
	adminRouter.GET("/applications", applicationHdl.ListApplications)
	adminRouter.GET("/applications/:applicationId", applicationHdl.GetApplication)
	adminRouter.POST("/applications/:applicationId/review", middleware.ValidateAndSanitizeStruct(&schemas.ReviewApplicationRequest{}), applicationHdl.ReviewApplication)
	adminRouter.GET("/stats", applicationHdl.GetAdminStats)
}
