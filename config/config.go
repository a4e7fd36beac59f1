package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/models"
)

const envPrefix = "STOREFRONT_"

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	UploadsDir string `yaml:"uploads_dir"`
	MaxImages  int    `yaml:"max_images"`
}

type DatabaseConfig struct {
	Type     string `yaml:"type"` // mysql or sqlite
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"`
	Debug    bool   `yaml:"debug"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"` // production or development
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":3000",
			UploadsDir: "./uploads",
			MaxImages:  10,
		},
		Database: DatabaseConfig{
			Type:     "mysql",
			Host:     "127.0.0.1",
			Port:     "3306",
			Database: "storefront",
			Path:     "storefront.db",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		JWT: JWTConfig{
			ExpireHours: 24,
		},
		Logger: LoggerConfig{
			Mode:     "development",
			Filename: "storefront.log",
		},
	}
}

// LoadConfig reads filename on top of Default and then applies STOREFRONT_* environment overrides.
// A missing file is not an error.
func LoadConfig(filename string) (Config, error) {
	config := Default()

	// .env is optional
	_ = godotenv.Load()

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, errors.Wrapf(err, "decode %s", filename)
		}
	case os.IsNotExist(err):
	default:
		return config, errors.Wrapf(err, "open %s", filename)
	}

	applyEnv(&config)

	if config.JWT.Secret == "" {
		return config, errors.New("jwt secret is not configured")
	}
	return config, nil
}

func applyEnv(config *Config) {
	setString(&config.Server.Addr, "SERVER_ADDR")
	setString(&config.Server.UploadsDir, "UPLOADS_DIR")
	setInt(&config.Server.MaxImages, "MAX_IMAGES")

	setString(&config.Database.Type, "DB_TYPE")
	setString(&config.Database.Username, "DB_USERNAME")
	setString(&config.Database.Password, "DB_PASSWORD")
	setString(&config.Database.Host, "DB_HOST")
	setString(&config.Database.Port, "DB_PORT")
	setString(&config.Database.Database, "DB_NAME")
	setString(&config.Database.Path, "DB_PATH")
	setBool(&config.Database.Debug, "DB_DEBUG")

	setString(&config.Redis.Addr, "REDIS_ADDR")
	setString(&config.Redis.Password, "REDIS_PASSWORD")
	setInt(&config.Redis.Database, "REDIS_DB")

	setString(&config.JWT.Secret, "JWT_SECRET")
	setInt(&config.JWT.ExpireHours, "JWT_EXPIRE_HOURS")

	setString(&config.Logger.Mode, "LOGGER_MODE")
	setBool(&config.Logger.FileEnable, "LOGGER_FILE_ENABLE")
	setString(&config.Logger.Filename, "LOGGER_FILENAME")
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		*dst = strings.TrimSpace(value)
	}
}

func setInt(dst *int, key string) {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			*dst = b
		}
	}
}

// SetupDatabase opens the configured database and migrates the storefront tables.
func SetupDatabase(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Type {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.Username,
			config.Password,
			config.Host,
			config.Port,
			config.Database,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(config.Path)
	default:
		return nil, errors.Errorf("unsupported database type: %q", config.Type)
	}

	logLevel := logger.Warn
	if config.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := models.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}

	return db, nil
}

// SetupRedisConnection returns a client for cart storage. The connection is checked lazily.
func SetupRedisConnection(config RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.Database,
	})
}
