// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Drive    DriveConfig
	Snapshot SnapshotConfig
	Engine   EngineConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	AdminPort      string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResultTTLSeconds int
}

// StorageConfig describes an S3-compatible bucket holding snapshot tables.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type SnapshotConfig struct {
	// Source is one of dir, s3, drive, postgres, sample.
	Source          string
	DataDir         string
	DownloadDir     string
	RefreshInterval time.Duration
}

type EngineConfig struct {
	SafetyBuffer    float64
	MaxDistanceKm   float64
	ForecastHorizon int
	MinHistory      int
	Workers         int
	TopN            int
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		instance = fromViper()

		if instance.Snapshot.Source == "dir" {
			ensureDir(instance.Snapshot.DataDir)
		}
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("ADMIN_PORT", "5001")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DB_ENABLED", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "stockguard")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_RESULT_TTL_SECONDS", 60)
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_USE_SSL", true)
	viper.SetDefault("S3_PREFIX", "snapshots/")
	viper.SetDefault("SNAPSHOT_SOURCE", "dir")
	viper.SetDefault("SNAPSHOT_DATA_DIR", "./data")
	viper.SetDefault("SNAPSHOT_DOWNLOAD_DIR", "./data/tmp/snapshot")
	viper.SetDefault("SNAPSHOT_REFRESH_INTERVAL", "5m")
	viper.SetDefault("ENGINE_SAFETY_BUFFER", 0.2)
	viper.SetDefault("ENGINE_MAX_DISTANCE_KM", 50.0)
	viper.SetDefault("ENGINE_FORECAST_HORIZON_DAYS", 30)
	viper.SetDefault("ENGINE_MIN_HISTORY", 5)
	viper.SetDefault("ENGINE_WORKERS", 8)
	viper.SetDefault("ENGINE_TOP_N", 10)
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("LOG_FORMAT", "console")
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			AdminPort:      viper.GetString("ADMIN_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:  viper.GetBool("DB_ENABLED"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:          viper.GetBool("CACHE_ENABLED"),
			RedisURL:         viper.GetString("REDIS_URL"),
			RedisHost:        viper.GetString("REDIS_HOST"),
			RedisPort:        viper.GetString("REDIS_PORT"),
			RedisPassword:    viper.GetString("REDIS_PASSWORD"),
			RedisDB:          viper.GetInt("REDIS_DB"),
			ResultTTLSeconds: viper.GetInt("CACHE_RESULT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("S3_ENDPOINT"),
			AccessKey: viper.GetString("S3_ACCESS_KEY"),
			SecretKey: viper.GetString("S3_SECRET_KEY"),
			Bucket:    viper.GetString("S3_BUCKET"),
			Prefix:    viper.GetString("S3_PREFIX"),
			Region:    viper.GetString("S3_REGION"),
			UseSSL:    viper.GetBool("S3_USE_SSL"),
		},
		Drive: DriveConfig{
			CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        viper.GetString("GOOGLE_DRIVE_FOLDER_ID"),
		},
		Snapshot: SnapshotConfig{
			Source:          viper.GetString("SNAPSHOT_SOURCE"),
			DataDir:         viper.GetString("SNAPSHOT_DATA_DIR"),
			DownloadDir:     viper.GetString("SNAPSHOT_DOWNLOAD_DIR"),
			RefreshInterval: viper.GetDuration("SNAPSHOT_REFRESH_INTERVAL"),
		},
		Engine: EngineConfig{
			SafetyBuffer:    viper.GetFloat64("ENGINE_SAFETY_BUFFER"),
			MaxDistanceKm:   viper.GetFloat64("ENGINE_MAX_DISTANCE_KM"),
			ForecastHorizon: viper.GetInt("ENGINE_FORECAST_HORIZON_DAYS"),
			MinHistory:      viper.GetInt("ENGINE_MIN_HISTORY"),
			Workers:         viper.GetInt("ENGINE_WORKERS"),
			TopN:            viper.GetInt("ENGINE_TOP_N"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
