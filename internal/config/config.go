package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"studioflow/internal/domain/entities"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

type AWS struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	DynamoEndpoint  string
	S3Endpoint      string
	Bucket          string
}

type Email struct {
	BrevoAPIKey string
	SenderEmail string
	SenderName  string
	Sandbox     bool
	Mock        bool
	AppURL      string
}

type Config struct {
	Env              string
	Port             int
	StoreDriver      string
	AWS              AWS
	JWTSecret        string
	JWTIssuer        string
	TokenTTL         time.Duration
	Email            Email
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	MercadoPagoToken string
	OverdueThreshold time.Duration
}

// platformCredentials is the decoded form of AWS_CREDENTIALS_B64.
type platformCredentials struct {
	Region          string `json:"region"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	SessionToken    string `json:"sessionToken"`
	Bucket          string `json:"bucket"`
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

// Load reads the process environment. Platform credentials come either from a single
// base64-encoded JSON blob (AWS_CREDENTIALS_B64) or from the discrete AWS_* variables;
// discrete variables win when both are present.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvInt("CACHE_TTL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getEnvInt("TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	overdueDays, err := getEnvInt("OVERDUE_THRESHOLD_DAYS", int(entities.DefaultOverdueThreshold/(24*time.Hour)))
	if err != nil {
		return nil, err
	}
	if overdueDays < 0 {
		return nil, fmt.Errorf("OVERDUE_THRESHOLD_DAYS must not be negative")
	}

	awsCfg, err := loadAWS()
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreDynamoDB))
	if driver != StoreDynamoDB && driver != StoreMemory {
		return nil, fmt.Errorf("STORE_DRIVER: unsupported driver %q", driver)
	}

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        port,
		StoreDriver: driver,
		AWS:         awsCfg,
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   getEnv("JWT_ISSUER", "studioflow"),
		TokenTTL:    time.Duration(tokenTTL) * time.Minute,
		Email: Email{
			BrevoAPIKey: os.Getenv("BREVO_API_KEY"),
			SenderEmail: os.Getenv("BREVO_SENDER_EMAIL"),
			SenderName:  getEnv("BREVO_SENDER_NAME", "Studioflow"),
			Sandbox:     getEnvBool("BREVO_SANDBOX"),
			Mock:        getEnvBool("EMAIL_MOCK"),
			AppURL:      getEnv("APP_URL", "http://localhost:3000"),
		},
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		CacheTTL:         time.Duration(cacheTTL) * time.Second,
		MercadoPagoToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		OverdueThreshold: time.Duration(overdueDays) * 24 * time.Hour,
	}, nil
}

func loadAWS() (AWS, error) {
	out := AWS{
		Region:         "us-east-1",
		DynamoEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
	}

	if blob := strings.TrimSpace(os.Getenv("AWS_CREDENTIALS_B64")); blob != "" {
		raw, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return AWS{}, fmt.Errorf("AWS_CREDENTIALS_B64: %w", err)
		}
		var creds platformCredentials
		if err := json.Unmarshal(raw, &creds); err != nil {
			return AWS{}, fmt.Errorf("AWS_CREDENTIALS_B64: %w", err)
		}
		if creds.Region != "" {
			out.Region = creds.Region
		}
		out.AccessKeyID = creds.AccessKeyID
		out.SecretAccessKey = creds.SecretAccessKey
		out.SessionToken = creds.SessionToken
		out.Bucket = creds.Bucket
	}

	out.Region = getEnv("AWS_REGION", out.Region)
	out.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", out.AccessKeyID)
	out.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", out.SecretAccessKey)
	out.SessionToken = getEnv("AWS_SESSION_TOKEN", out.SessionToken)
	out.Bucket = getEnv("STORAGE_BUCKET", out.Bucket)
	return out, nil
}
