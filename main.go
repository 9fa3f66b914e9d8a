package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/desweal/backend/internal/controllers/v1"
	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration from a .env file if one exists
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// API_URL is the URL under which the backend is reachable,
	// e.g. https://ledger.example.com/api
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		log.Fatal().Msg("environment variable API_URL must be set")
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg("environment variable API_URL must be a valid URL")
	}

	// Create the data directory for the sqlite database
	if _, ok := os.LookupEnv("DB_HOST"); !ok {
		dataDir := filepath.Join(".", "data")
		err := os.MkdirAll(dataDir, os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	// Connect to the database and migrate all models
	err = models.Connect("data/gorm.db")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, err := router.Config(url)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(v1.NewController(models.DB), r.Group(url.Path))

	// The backend deliberately only supports HTTP since TLS
	// termination is the job of a reverse proxy in front of it
	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
