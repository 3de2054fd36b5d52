package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// App holds the runtime settings shared by the API server and the worker CLI.
type App struct {
	HTTPAddr       string        `env:"HTTP_ADDR,default=:8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=10s"`

	CronSecret string `env:"CRON_SECRET"`

	ExtractionURL     string        `env:"EXTRACTION_SERVICE_URL,default=http://localhost:8000"`
	ExtractionTimeout time.Duration `env:"EXTRACTION_TIMEOUT,default=60s"`
	LeaseDuration     time.Duration `env:"LEASE_DURATION,default=10m"`

	AdminEmails []string `env:"ADMIN_EMAILS"`

	WaitlistInviteTTL time.Duration `env:"WAITLIST_INVITE_TTL,default=168h"`
	GroupInviteTTL    time.Duration `env:"GROUP_INVITE_TTL,default=336h"`

	S3Endpoint      string `env:"S3_ENDPOINT,default=localhost:9000"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3Bucket        string `env:"S3_BUCKET,default=recipe-images"`
	S3UseSSL        bool   `env:"S3_USE_SSL,default=false"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// to help with testing
var envProcess = envconfig.Process

func LoadApp(ctx context.Context) (*App, error) {
	var cfg App
	if err := envProcess(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := validateApp(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateApp(cfg *App) error {
	var errs []string

	if strings.TrimSpace(cfg.ExtractionURL) == "" {
		errs = append(errs, "EXTRACTION_SERVICE_URL is required")
	}
	if cfg.ExtractionTimeout <= 0 {
		errs = append(errs, "EXTRACTION_TIMEOUT must be positive")
	}
	if cfg.LeaseDuration <= 0 {
		errs = append(errs, "LEASE_DURATION must be positive")
	}
	// A lease that runs out mid-call lets the sweep hand the item to another
	// invocation while the first one is still extracting it.
	if cfg.LeaseDuration > 0 && cfg.ExtractionTimeout > 0 && cfg.LeaseDuration <= cfg.ExtractionTimeout {
		errs = append(errs, "LEASE_DURATION must exceed EXTRACTION_TIMEOUT")
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT must be positive")
	}
	if cfg.WaitlistInviteTTL <= 0 {
		errs = append(errs, "WAITLIST_INVITE_TTL must be positive")
	}
	if cfg.GroupInviteTTL <= 0 {
		errs = append(errs, "GROUP_INVITE_TTL must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// AdminSet is the allowlist of emails permitted on admin routes.
type AdminSet map[string]struct{}

func NewAdminSet(emails []string) AdminSet {
	set := make(AdminSet, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return set
}

func (s AdminSet) IsAdmin(email string) bool {
	_, ok := s[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
