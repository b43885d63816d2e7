package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Sources    SourcesConfig
	Thresholds ThresholdConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

// SourcesConfig rutas de los cuatro extractos SAP
type SourcesConfig struct {
	MovementsPath   string `validate:"required"`
	ExpirationsPath string `validate:"required"`
	ShelfLivesPath  string `validate:"required"`
	TimelinePath    string `validate:"required"`
}

// ThresholdConfig límites porcentuales del clasificador de conformidad.
// Contrato: Warn < Good < 100. Una configuración inválida se rechaza acá,
// nunca la reinterpreta el clasificador.
type ThresholdConfig struct {
	Good float64 `validate:"gt=0,lt=100"`
	Warn float64 `validate:"gt=0,ltfield=Good"`
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Cargar .env si existe
	if err := godotenv.Load(); err != nil {
		// No es crítico si no existe el archivo .env
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Sources: SourcesConfig{
			MovementsPath:   getEnv("MOVEMENTS_PATH", "data/Mb51_SAP.xlsx"),
			ExpirationsPath: getEnv("EXPIRATIONS_PATH", "data/Sq00_Validade.xlsx"),
			ShelfLivesPath:  getEnv("SHELF_LIVES_PATH", "data/Validade_Fornecedores.xlsx"),
			TimelinePath:    getEnv("TIMELINE_PATH", "data/Vencimentos_SAP.xlsx"),
		},
		Thresholds: ThresholdConfig{
			Good: getEnvAsFloat("GOOD_THRESHOLD", 90),
			Warn: getEnvAsFloat("WARN_THRESHOLD", 50),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	validate := validator.New()
	if err := validate.Struct(config.Thresholds); err != nil {
		return nil, fmt.Errorf("umbrales inválidos (se requiere warn < good < 100): %w", err)
	}
	if err := validate.Struct(config.Sources); err != nil {
		return nil, fmt.Errorf("rutas de extractos inválidas: %w", err)
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
