package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/wmbr/proc-opt/internal/shared"
)

// Algorithm names accepted by SOLVER_ALGORITHM and -algorithm.
const (
	AlgorithmSchrage    = "schrage"
	AlgorithmPreemptive = "preemptive"
	AlgorithmAll        = "all"
)

// Output formats accepted by OUTPUT_FORMAT and -format.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config holds application configuration values.
type Config struct {
	Env string `validate:"required,oneof=dev prod"`
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Solver struct {
		Workers   int    `validate:"min=1,max=256"`
		Algorithm string `validate:"required,oneof=schrage preemptive all"`
	}
	Output struct {
		Format string `validate:"required,oneof=text yaml"`
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "prod")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "warn"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = os.Getenv("LOG_FILE")
	c.Solver.Algorithm = strings.ToLower(getenv("SOLVER_ALGORITHM", AlgorithmAll))
	c.Output.Format = strings.ToLower(getenv("OUTPUT_FORMAT", FormatText))

	workers, err := strconv.Atoi(getenv("SOLVER_WORKERS", "4"))
	if err != nil {
		return Config{}, shared.Validationf("SOLVER_WORKERS: %v", err)
	}
	c.Solver.Workers = workers

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the struct tags. Call it again after applying overrides.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return shared.MarkKind(err, shared.KindValidation)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
