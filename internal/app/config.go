package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/evdealer-wizard/internal/domain/auth"
	"github.com/xenking/evdealer-wizard/internal/wizard"
)

// Config holds the complete application configuration, loadable from
// environment variables (EVDW_ prefix) or YAML config files. Command line
// flags are applied on top by the CLI.
type Config struct {
	Backend BackendConfig
	Session SessionConfig
	Wizard  WizardConfig
}

// BackendConfig locates the dealer order backend.
type BackendConfig struct {
	URL       string        `default:"http://localhost:8080" usage:"Dealer backend base URL"`
	Timeout   time.Duration `default:"15s" usage:"Timeout of a single backend request"`
	UserAgent string        `default:"order-wizard" usage:"User-Agent sent to the backend"`
}

// SessionConfig is the login session of the staff member.
type SessionConfig struct {
	Token    string `usage:"Bearer token obtained at login (EVDW_SESSION_TOKEN)"`
	DealerID int64  `usage:"Dealer the staff member works for"`
	Username string `usage:"Staff username, for display"`
	Role     string `usage:"Staff role, for display"`
}

// WizardConfig tunes the order wizard.
type WizardConfig struct {
	PhoneLookupMinDigits int `default:"10" usage:"Phone digits needed before looking up a customer"`
}

// LoadConfig loads configuration from environment variables and a YAML
// config file. The first existing file among files, ./config.yaml and
// /etc/evdealer/config.yaml is used.
func LoadConfig(files ...string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "EVDW",
		Files:     append(files, "config.yaml", "/etc/evdealer/config.yaml"),
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}

// AuthSession converts the session settings into an auth.Session.
func (c *Config) AuthSession() auth.Session {
	return auth.Session{
		Token:    c.Session.Token,
		DealerID: c.Session.DealerID,
		Username: c.Session.Username,
		Role:     c.Session.Role,
	}
}

// Validate checks that the configuration can reach the backend.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("backend URL is required: set EVDW_BACKEND_URL or --backend-url")
	}
	if c.Backend.Timeout < 0 {
		return errors.Errorf("invalid backend timeout %s", c.Backend.Timeout)
	}
	if err := c.AuthSession().Validate(); err != nil {
		return errors.Wrap(err, "session: set EVDW_SESSION_TOKEN and EVDW_SESSION_DEALER_ID or use --token and --dealer-id")
	}
	if c.Wizard.PhoneLookupMinDigits < 0 {
		return errors.Errorf("invalid phone lookup length %d", c.Wizard.PhoneLookupMinDigits)
	}
	return nil
}

// wizardConfig returns the non-dependency settings of the wizard.
func (c *Config) wizardConfig() wizard.Config {
	return wizard.Config{PhoneLookupMinDigits: c.Wizard.PhoneLookupMinDigits}
}
