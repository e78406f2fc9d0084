package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	GigaChat    GigaChatConfig
	Translation TranslationConfig
	Storage     StorageConfig
	Ingest      IngestConfig
	Logger      LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// AutoMigrate applies pending schema migrations on startup.
	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

// TranslationConfig controls the optional translate step between extraction
// and normalization.
type TranslationConfig struct {
	Enabled        bool
	SourceLanguage string
	TargetLanguage string
	// RequestsPerMinute throttles calls to the translation endpoint.
	RequestsPerMinute int
}

type StorageConfig struct {
	// Backend is "local" or "minio".
	Backend   string
	UploadDir string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type IngestConfig struct {
	// AliasFile is an optional YAML file extending the column alias table.
	AliasFile   string
	SearchLimit int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same way
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	bodyLimitMB, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "32"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	searchLimit, _ := strconv.Atoi(getEnv("INGEST_SEARCH_LIMIT", "50"))
	translateRPM, _ := strconv.Atoi(getEnv("TRANSLATION_REQUESTS_PER_MINUTE", "30"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimitMB * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "material_kb"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true",
		},
		Translation: TranslationConfig{
			Enabled:           getEnv("TRANSLATION_ENABLED", "false") == "true",
			SourceLanguage:    getEnv("TRANSLATION_SOURCE_LANGUAGE", "Japanese"),
			TargetLanguage:    getEnv("TRANSLATION_TARGET_LANGUAGE", "English"),
			RequestsPerMinute: translateRPM,
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			UploadDir: getEnv("STORAGE_UPLOAD_DIR", "uploads"),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "supplier-documents"),
			Region:    getEnv("MINIO_REGION", ""),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Ingest: IngestConfig{
			AliasFile:   getEnv("INGEST_ALIAS_FILE", ""),
			SearchLimit: searchLimit,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// DSN renders the connection string in key=value form for pgxpool.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.DBName + " sslmode=" + c.SSLMode
}

// MigrationURL renders the connection string in the URL form golang-migrate expects.
func (c DatabaseConfig) MigrationURL() string {
	return "pgx5://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
