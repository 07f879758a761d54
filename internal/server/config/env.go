package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/flagx"
	"github.com/joho/godotenv"
)

// loadDotenv is a seam for tests.
var loadDotenv = godotenv.Load

// parseEnv loads the dotenv file named by -env (or ./.env when present) into
// the process environment without overriding variables that are already set,
// then copies recognised variables into config. Unset variables leave the
// current value untouched.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := loadDotenv(path); err != nil {
			panic(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		_ = loadDotenv()
	}

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("GRPC_ADDR", &config.GRPCAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("LOG_LEVEL", &config.LogLevel)
	str("SECRET_KEY", &config.SecretKey)
	dur("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	dur("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)

	str("CHAPA_BASE_URL", &config.ChapaBaseURL)
	str("CHAPA_SECRET_KEY", &config.ChapaSecretKey)
	str("CHAPA_CALLBACK_URL", &config.ChapaCallbackURL)
	str("CHAPA_RETURN_URL", &config.ChapaReturnURL)
	dur("CHAPA_TIMEOUT", &config.ChapaTimeout)
	str("CURRENCY", &config.Currency)

	str("EMAIL_HOST", &config.SMTPHost)
	num("EMAIL_PORT", &config.SMTPPort)
	str("EMAIL_HOST_USER", &config.SMTPUser)
	str("EMAIL_HOST_PASSWORD", &config.SMTPPassword)
	str("EMAIL_FROM", &config.MailFrom)

	str("QUEUE_BACKEND", &config.QueueBackend)
	num("NOTIFICATION_WORKERS", &config.NotificationWorkers)
	str("SQS_QUEUE_URL", &config.SQSQueueURL)
	str("SQS_BASE_ENDPOINT", &config.SQSBaseEndpoint)
	str("AWS_REGION", &config.AWSRegion)
	str("AWS_ACCESS_KEY_ID", &config.AWSAccessKeyID)
	str("AWS_SECRET_ACCESS_KEY", &config.AWSSecretAccessKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	str("DEFAULT_ADMIN_EMAIL", &config.AdminEmail)
	str("DEFAULT_ADMIN_PASSWORD", &config.AdminPassword)
	str("DEFAULT_ADMIN_FIRST_NAME", &config.AdminFirstName)
	str("DEFAULT_ADMIN_LAST_NAME", &config.AdminLastName)
	str("DEFAULT_ADMIN_PHONE_NUMBER", &config.AdminPhoneNumber)
}
