// Package internal wires configuration, the database pool, the managers and
// the router together and starts the server.
package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"adoption-server/internal/interfaces"
	"adoption-server/internal/managers"
	"adoption-server/internal/routing"
	"adoption-server/internal/schemas"
)

const (
	port    = ":8080"
	envFile = ".env"
)

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	setLogLevel(logLevel)

	// Connect to database
	pool := initializeDatabase()
	defer pool.Close()

	// Create the schema and the default admin account on first run
	if err := bootstrapDatabase(context.Background(), pool); err != nil {
		log.Fatal("error bootstrapping database: ", err)
	}

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(pool)

	// Initialize mail manager
	mailMgr := managers.NewMailManager()

	// Initialize JWT manager
	jwtMgr, err := managers.NewJWTManagerFromFile()
	if err != nil {
		log.Fatal("error initializing JWT manager: ", err)
	}

	// Initialize router
	r := routing.InitRouter(databaseMgr, mailMgr, jwtMgr)
	log.Info("Initialized router")

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)

		<-c
		log.Info("Server shutting down...")
		os.Exit(0)
	}()

	// Start server on the specified port
	log.Infof("Starting server on port %s...", port)
	err = http.ListenAndServe(port, r)
	if err != nil {
		log.Fatal("Error starting server: ", err)
	}
}

func initializeDatabase() *pgxpool.Pool {
	log.Info("Initializing database")

	var (
		dbHost     = os.Getenv("DB_HOST")
		dbPort     = os.Getenv("DB_PORT")
		dbUser     = os.Getenv("DB_USER")
		dbPassword = os.Getenv("DB_PASS")
		dbName     = os.Getenv("DB_NAME")
	)

	if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		log.Fatal("database environment variables not set")
	}

	url := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName)
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	config.MinConns = 5
	config.MaxConns = 30
	config.MaxConnIdleTime = time.Minute * 2
	config.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

// bootstrapSchema holds the DDL executed once at startup. Statements are
// idempotent so restarts are safe.
var bootstrapSchema = []string{
	`CREATE SCHEMA IF NOT EXISTS adoption_schema`,
	`CREATE TABLE IF NOT EXISTS adoption_schema.users (
		user_id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'adopter' CHECK (role IN ('adopter', 'admin')),
		full_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS adoption_schema.pets (
		pet_id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		breed TEXT NOT NULL,
		age INTEGER NOT NULL CHECK (age >= 0),
		gender TEXT NOT NULL,
		size TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		special_needs TEXT NOT NULL DEFAULT '',
		vaccination_status TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'adopted')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS adoption_schema.adoption_applications (
		application_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES adoption_schema.users (user_id),
		pet_id UUID NOT NULL REFERENCES adoption_schema.pets (pet_id),
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'denied')),
		housing_type TEXT NOT NULL DEFAULT '',
		has_other_pets BOOLEAN NOT NULL DEFAULT FALSE,
		other_pets_description TEXT NOT NULL DEFAULT '',
		experience_with_pets TEXT NOT NULL DEFAULT '',
		reason_for_adoption TEXT NOT NULL DEFAULT '',
		application_text TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reviewed_at TIMESTAMPTZ,
		admin_notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS adoption_schema.password_reset_tokens (
		token_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES adoption_schema.users (user_id),
		token TEXT UNIQUE NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// bootstrapDatabase creates the schema and makes sure an admin account
// exists, mirroring the first-run initialization of the service.
func bootstrapDatabase(ctx context.Context, pool interfaces.PgxPoolIface) error {
	for _, statement := range bootstrapSchema {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return err
		}
	}

	var adminCount int
	row := pool.QueryRow(ctx, "SELECT COUNT(*) FROM adoption_schema.users WHERE role = 'admin'")
	if err := row.Scan(&adminCount); err != nil {
		return err
	}

	if adminCount > 0 {
		return nil
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
		log.Warn("ADMIN_PASSWORD not set, using the default admin password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	queryString := "INSERT INTO adoption_schema.users (user_id, username, email, password, role, full_name, created_at) " +
		"VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW())"
	if _, err := pool.Exec(ctx, queryString, "admin", "admin@petadoption.com", hashedPassword,
		schemas.RoleAdmin, "System Administrator"); err != nil {
		return err
	}

	log.Info("Created default admin account")
	return nil
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)
	log.SetOutput(os.Stdout)
}
