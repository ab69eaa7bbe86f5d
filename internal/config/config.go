// Package config provides functionality for managing configuration options
// of the memorial server and client using command-line flags, a JSON config
// file and environment variables.
//
// Sources are applied in order: env-default tags, config file, environment,
// explicitly set flags. A missing config file is ignored.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Duration is a time.Duration that reads "90s"-style strings from JSON and env.
type Duration time.Duration

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error { return d.SetValue(string(b)) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Std returns the value as time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// S3 holds the object storage settings for uploads.
type S3 struct {
	Endpoint        string `json:"endpoint" env:"S3_ENDPOINT"`
	Region          string `json:"region" env:"S3_REGION" env-default:"ru-central1"`
	Bucket          string `json:"bucket" env:"S3_BUCKET_NAME"`
	AccessKeyID     string `json:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `json:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	// PublicURL prefixes object keys in returned URLs; defaults to Endpoint/Bucket.
	PublicURL string `json:"public_url" env:"S3_PUBLIC_URL"`
}

// Server holds the configuration values of cmd/server.
type Server struct {
	// Address is the listening address (ip:port).
	Address string `json:"address" env:"SERVER_ADDRESS" env-default:"localhost:8080"`
	// DatabaseDSN is the Postgres connection string.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`
	LogLevel    string `json:"log_level" env:"LOG_LEVEL" env-default:"info"`

	JWTSecret string   `json:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  Duration `json:"token_ttl" env:"TOKEN_TTL" env-default:"168h"`
	// AdminLogin and AdminPasswordHash (bcrypt) are the only accepted credentials.
	AdminLogin        string `json:"admin_login" env:"ADMIN_LOGIN" env-default:"admin"`
	AdminPasswordHash string `json:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`

	S3 S3 `json:"s3"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `json:"tls_key" env:"TLS_KEY"`

	// CleanerInterval is the period of the orphan attachment cleaner; 0 disables it.
	CleanerInterval Duration `json:"cleaner_interval" env:"CLEANER_INTERVAL" env-default:"1h"`

	// Config is the path to the config file.
	Config string `json:"-"`
}

// Client holds the configuration values of cmd/client.
type Client struct {
	ServerURL   string `json:"server_url" env:"MEMORIAL_SERVER_URL" env-default:"http://localhost:8080"`
	CAFile      string `json:"ca_file" env:"MEMORIAL_CA_FILE"`
	StoragePath string `json:"storage_path" env:"MEMORIAL_STORAGE" env-default:"storage.json"`
	Debug       bool   `json:"debug" env:"MEMORIAL_DEBUG"`

	ShowVersion bool   `json:"-"`
	Config      string `json:"-"`
}

// ErrHelp is returned when -h or -help was given.
var ErrHelp = flag.ErrHelp

// ParseServer builds the server configuration from args (without the program name).
func ParseServer(args []string) (*Server, error) {
	var flags Server
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&flags.Address, "a", "", "run on ip:port server")
	fs.StringVar(&flags.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&flags.Config, "config", "", "path to config file")
	fs.StringVar(&flags.Config, "c", "", "path to config file (shorthand)")
	fs.StringVar(&flags.LogLevel, "l", "", "log level (debug, info, warn, error)")
	fs.StringVar(&flags.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&flags.TLSKey, "tls-key", "", "path to TLS private key")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Server{}
	if err := load(configPath(flags.Config), cfg); err != nil {
		return nil, err
	}
	cfg.Config = configPath(flags.Config)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.Address = flags.Address
		case "d":
			cfg.DatabaseDSN = flags.DatabaseDSN
		case "l":
			cfg.LogLevel = flags.LogLevel
		case "tls-cert":
			cfg.TLSCert = flags.TLSCert
		case "tls-key":
			cfg.TLSKey = flags.TLSKey
		}
	})

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Server) validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required (-d or DATABASE_DSN)"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT secret is required (JWT_SECRET)"))
	}
	if c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("admin password hash is required (ADMIN_PASSWORD_HASH)"))
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("TLS certificate and key must be set together"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	return errors.Join(errs...)
}

// TLSEnabled reports whether the server should serve HTTPS.
func (c *Server) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// ParseClient builds the client configuration from args (without the program name).
func ParseClient(args []string) (*Client, error) {
	var flags Client
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&flags.ServerURL, "url", "", "server base URL")
	fs.StringVar(&flags.CAFile, "ca", "", "path to CA cert trusted for HTTPS")
	fs.StringVar(&flags.StoragePath, "storage", "", "path to local storage file")
	fs.BoolVar(&flags.Debug, "debug", false, "log API requests to stderr")
	fs.BoolVar(&flags.ShowVersion, "version", false, "show build version and date")
	fs.StringVar(&flags.Config, "config", "", "path to config file")
	fs.StringVar(&flags.Config, "c", "", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Client{}
	if err := load(configPath(flags.Config), cfg); err != nil {
		return nil, err
	}
	cfg.Config = configPath(flags.Config)
	cfg.ShowVersion = flags.ShowVersion

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.ServerURL = flags.ServerURL
		case "ca":
			cfg.CAFile = flags.CAFile
		case "storage":
			cfg.StoragePath = flags.StoragePath
		case "debug":
			cfg.Debug = flags.Debug
		}
	})
	return cfg, nil
}

// configPath prefers the flag, then the CONFIG environment variable.
func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG")
}

// load reads the config file when it exists and the environment otherwise.
// cleanenv.ReadConfig applies environment overrides after the file.
func load(path string, cfg any) error {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			return nil
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("error while reading environment: %w", err)
	}
	return nil
}
