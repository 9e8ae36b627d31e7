package main

import (
	"os"
	"runtime"

	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/dmaceachern/jarvis-api/internal/db"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"github.com/dmaceachern/jarvis-api/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode if GIN_MODE != release)
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev)

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the assistant daemon.
func main() {
	defer logger.Sync()

	envFile := cli.StringP("env", "e", ".env", "Env file path")
	promptsFile := cli.StringP("prompts", "p", "configs/prompts.yaml", "Prompts file path")
	cli.Parse()

	// Missing .env is fine, the environment may already be populated.
	godotenv.Load(*envFile)

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}

	// Load prompts from YAML
	prompts, err := config.LoadPrompts(*promptsFile)
	if err != nil {
		logger.Get().Fatal("failed to load prompts", zap.Error(err))
	}
	cfg.Prompts = prompts

	// Connect to the database
	database, err := db.New(cfg)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := database.DB()
	if err != nil {
		logger.Get().Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// Create a new gin router
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(cfg, database)

	// Run the server
	logger.Get().Info("starting daemon", zap.String("port", cfg.EnvVars.Port))
	r.Run("127.0.0.1:" + cfg.EnvVars.Port)
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
