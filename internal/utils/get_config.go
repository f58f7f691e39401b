package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort         string `yaml:"APP_PORT"`
	AppURL          string `yaml:"APP_URL"`
	CORSAllowOrigin string `yaml:"CORS_ALLOW_ORIGIN"`
	RateLimitMax    int    `yaml:"RATE_LIMIT_MAX"`
	LogFile         string `yaml:"LOG_FILE"`

	// Store configuration: firestore, postgres or memory
	StoreDriver string `yaml:"STORE_DRIVER"`

	// Firebase configuration
	FirebaseProjectID       string `yaml:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `yaml:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseAPIKey          string `yaml:"FIREBASE_API_KEY"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// Auth configuration: firebase or local
	JWTSecret        string `yaml:"JWT_SECRET"`
	RequireAuth      bool   `yaml:"REQUIRE_AUTH"`
	IdentityProvider string `yaml:"IDENTITY_PROVIDER"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

func DefaultConfig() Config {
	return Config{
		AppPort:          "8000",
		CORSAllowOrigin:  "*",
		RateLimitMax:     10,
		StoreDriver:      "memory",
		DBPort:           "5432",
		DBSSLMode:        "disable",
		IdentityProvider: "local",
		SMTPPort:         "587",
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig, then lets any environment
// variable named like a YAML key override it. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("utils: parsing %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("utils: reading %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("yaml")
		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("utils: %s: %w", key, err)
			}
			field.SetInt(int64(n))
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("utils: %s: %w", key, err)
			}
			field.SetBool(b)
		}
	}
	return nil
}

// GetConfig looks a single key up by its YAML name.
func (c Config) GetConfig(key string) string {
	v := reflect.ValueOf(c)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("yaml") == key {
			return fmt.Sprint(v.Field(i).Interface())
		}
	}
	return ""
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
