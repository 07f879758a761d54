package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/travelapp/internal/flagx"
	"github.com/dmitrijs2005/travelapp/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept "10s"-style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                     string         `json:"http_addr"`
	GRPCAddr                     string         `json:"grpc_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	LogLevel                     string         `json:"log_level"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	ChapaBaseURL     string         `json:"chapa_base_url"`
	ChapaSecretKey   string         `json:"chapa_secret_key"`
	ChapaCallbackURL string         `json:"chapa_callback_url"`
	ChapaReturnURL   string         `json:"chapa_return_url"`
	ChapaTimeout     timex.Duration `json:"chapa_timeout"`
	Currency         string         `json:"currency"`

	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	MailFrom     string `json:"mail_from"`

	QueueBackend        string `json:"queue_backend"`
	NotificationWorkers int    `json:"notification_workers"`
	SQSQueueURL         string `json:"sqs_queue_url"`
	SQSBaseEndpoint     string `json:"sqs_base_endpoint"`
	AWSRegion           string `json:"aws_region"`
	AWSAccessKeyID      string `json:"aws_access_key_id"`
	AWSSecretAccessKey  string `json:"aws_secret_access_key"`
	S3Bucket            string `json:"s3_bucket"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`

	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// parseJson overlays values from the JSON file given via -c/-config.
// Fields absent from the file (zero values) keep their current value.
// An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}

	setString(&config.ChapaBaseURL, c.ChapaBaseURL)
	setString(&config.ChapaSecretKey, c.ChapaSecretKey)
	setString(&config.ChapaCallbackURL, c.ChapaCallbackURL)
	setString(&config.ChapaReturnURL, c.ChapaReturnURL)
	if c.ChapaTimeout.Duration != 0 {
		config.ChapaTimeout = c.ChapaTimeout.Duration
	}
	setString(&config.Currency, c.Currency)

	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)

	setString(&config.QueueBackend, c.QueueBackend)
	if c.NotificationWorkers != 0 {
		config.NotificationWorkers = c.NotificationWorkers
	}
	setString(&config.SQSQueueURL, c.SQSQueueURL)
	setString(&config.SQSBaseEndpoint, c.SQSBaseEndpoint)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setString(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
