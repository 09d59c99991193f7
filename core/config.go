package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application settings. Values come from the environment
// (optionally seeded from config/.env.<env>), with development defaults.
type Config struct {
	Env      string
	AppName  string
	Debug    bool
	TestMode bool

	SecretKey       []byte
	FrontendBaseURL string
	LinkExpiry      time.Duration

	Server struct {
		Addr               string
		PublicURL          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	Mongo struct {
		URI      string
		Database string
		Timeout  time.Duration
	}

	ObjectStore struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	SMTP struct {
		Host     string
		Port     int
		User     string
		Password string
		From     string
	}
	Sendgrid struct {
		APIKey    string
		FromEmail string
	}
	Resend struct {
		APIKey    string
		FromEmail string
	}

	GreenAPI struct {
		IDInstance string
		Token      string
	}
	Wati struct {
		APIKey  string
		BaseURL string
	}
	Twilio struct {
		AccountSID   string
		AuthToken    string
		WhatsAppFrom string
	}

	Rollbar struct {
		Token string
	}
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("app_name", "Somo")
	conf.SetDefault("secret_key", "w#v1^t5mz)e&2l$8iy(0c_rq+u4o@dk7nx!h3s6gf9jb*pa%")
	conf.SetDefault("frontend_base_url", "http://localhost:3000")
	conf.SetDefault("link_expiry", 10*time.Minute)
	conf.SetDefault("server_addr", ":8000")
	conf.SetDefault("server_public_url", "http://localhost:8000")
	conf.SetDefault("server_shutdown_timeout", 5*time.Second)
	conf.SetDefault("jwt_expiration_delta", 24*time.Hour)
	conf.SetDefault("mongo_uri", "mongodb://localhost:27017")
	conf.SetDefault("mongo_database", "somo")
	conf.SetDefault("mongo_timeout", 5*time.Second)
	conf.SetDefault("smtp_port", 587)
	conf.SetDefault("sendgrid_from_email", "noreply@localhost")
	conf.SetDefault("resend_from_email", "noreply@localhost")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Env:             env,
		AppName:         conf.GetString("app_name"),
		Debug:           conf.GetBool("debug") && env != "PROD",
		TestMode:        testMode,
		SecretKey:       []byte(conf.GetString("secret_key")),
		FrontendBaseURL: conf.GetString("frontend_base_url"),
		LinkExpiry:      conf.GetDuration("link_expiry"),
	}

	c.Server.Addr = conf.GetString("server_addr")
	c.Server.PublicURL = strings.TrimRight(conf.GetString("server_public_url"), "/")
	c.Server.ShutdownTimeout = conf.GetDuration("server_shutdown_timeout")
	c.Server.JWTExpirationDelta = conf.GetDuration("jwt_expiration_delta")

	c.Mongo.URI = conf.GetString("mongo_uri")
	c.Mongo.Database = conf.GetString("mongo_database")
	c.Mongo.Timeout = conf.GetDuration("mongo_timeout")

	c.ObjectStore.Endpoint = conf.GetString("object_store_endpoint")
	c.ObjectStore.AccessKey = conf.GetString("object_store_access_key")
	c.ObjectStore.SecretKey = conf.GetString("object_store_secret_key")
	c.ObjectStore.Bucket = conf.GetString("object_store_bucket")
	c.ObjectStore.UseSSL = conf.GetBool("object_store_use_ssl")

	c.SMTP.Host = conf.GetString("smtp_host")
	c.SMTP.Port = conf.GetInt("smtp_port")
	c.SMTP.User = conf.GetString("smtp_user")
	c.SMTP.Password = conf.GetString("smtp_password")
	c.SMTP.From = conf.GetString("smtp_from")

	c.Sendgrid.APIKey = conf.GetString("sendgrid_api_key")
	c.Sendgrid.FromEmail = conf.GetString("sendgrid_from_email")
	c.Resend.APIKey = conf.GetString("resend_api_key")
	c.Resend.FromEmail = conf.GetString("resend_from_email")

	c.GreenAPI.IDInstance = conf.GetString("green_api_id_instance")
	c.GreenAPI.Token = conf.GetString("green_api_token")
	c.Wati.APIKey = conf.GetString("wati_api_key")
	c.Wati.BaseURL = strings.TrimRight(conf.GetString("wati_base_url"), "/")
	c.Twilio.AccountSID = conf.GetString("twilio_account_sid")
	c.Twilio.AuthToken = conf.GetString("twilio_auth_token")
	c.Twilio.WhatsAppFrom = conf.GetString("twilio_whatsapp_from")

	c.Rollbar.Token = conf.GetString("rollbar_token")
	return c
}

// Provider presence checks. The delivery dispatcher re-evaluates these on
// every request so credential changes take effect without a restart.

func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Password != ""
}

func (c *Config) SendgridConfigured() bool { return c.Sendgrid.APIKey != "" }

func (c *Config) ResendConfigured() bool { return c.Resend.APIKey != "" }

func (c *Config) GreenAPIConfigured() bool {
	return c.GreenAPI.IDInstance != "" && c.GreenAPI.Token != ""
}

func (c *Config) WatiConfigured() bool { return c.Wati.APIKey != "" && c.Wati.BaseURL != "" }

func (c *Config) TwilioConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != ""
}

func (c *Config) ObjectStoreConfigured() bool {
	return c.ObjectStore.Endpoint != "" && c.ObjectStore.Bucket != ""
}
