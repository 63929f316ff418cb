package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/router"
)

type config struct {
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
	LogFormat string `env:"LOG_FORMAT"`
	APIURL    string `env:"API_URL,required"`
	DBDSN     string `env:"DB_DSN" envDefault:"data/gorm.db"`
	JWTSecret string `env:"JWT_SECRET,required"`
}

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	apiURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		log.Fatal().Str("API_URL", cfg.APIURL).Msg(err.Error())
	}

	// Create the data directory for the default DSN
	err = os.MkdirAll(filepath.Dir(cfg.DBDSN), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate all models
	err = models.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(apiURL, []byte(cfg.JWTSecret))
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group("/"))

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
