// Package config loads process configuration. A YAML settings file named by
// the SELEG_RA_SETTINGS environment variable is read first (optional), then
// individual environment variables override it, so containers can tweak a
// single knob without shipping a new file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsEnvVar names the environment variable pointing at the settings file.
const SettingsEnvVar = "SELEG_RA_SETTINGS"

// Mongo holds document store settings. Both the operator whitelist and the
// proofing log live in the same database.
type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Redis holds optional cache settings; an empty Addr disables caching.
type Redis struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// App identifies this RA instance toward the vetting OP.
type App struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

// Vetting configures the external vetting endpoint. Timeout bounds the relay
// call; a relay that never completes is classified as unreachable.
type Vetting struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"-"`

	RawTimeout string `yaml:"timeout"`
}

// Gates holds the federation policy sets consumed by the assurance gate.
type Gates struct {
	AL2Assurances     []string `yaml:"al2_assurances"`
	AL2IDPExceptions  []string `yaml:"al2_idp_exceptions"`
	MFAContextClasses []string `yaml:"mfa_authn_context_classes"`
	MFAIDPExceptions  []string `yaml:"mfa_idp_exceptions"`
}

// Config is the full process configuration.
type Config struct {
	Addr     string `yaml:"addr"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	Mongo   Mongo   `yaml:"mongo"`
	Redis   Redis   `yaml:"redis"`
	App     App     `yaml:"app"`
	Vetting Vetting `yaml:"vetting"`
	Gates   Gates   `yaml:"gates"`

	ProofingVersion string `yaml:"proofing_version"`
}

// Load builds the configuration from the optional settings file plus
// environment overrides, applying development defaults last.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv(SettingsEnvVar); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse settings file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "se_leg_ra"
	}
	if cfg.ProofingVersion == "" {
		cfg.ProofingVersion = "2018v1"
	}

	if cfg.Vetting.RawTimeout != "" {
		d, err := time.ParseDuration(cfg.Vetting.RawTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse vetting timeout: %w", err)
		}
		cfg.Vetting.Timeout = d
	}
	if cfg.Vetting.Timeout <= 0 {
		cfg.Vetting.Timeout = 10 * time.Second
	}

	return cfg, nil
}

// applyEnv maps individual environment variables onto the config. List-valued
// gate settings are comma separated.
func applyEnv(cfg *Config) {
	setString(&cfg.Addr, "SELEG_RA_ADDR")
	setString(&cfg.Env, "SELEG_RA_ENV")
	setString(&cfg.LogLevel, "SELEG_RA_LOG_LEVEL")
	setString(&cfg.Mongo.URI, "SELEG_RA_MONGO_URI")
	setString(&cfg.Mongo.Database, "SELEG_RA_MONGO_DATABASE")
	setString(&cfg.Redis.Addr, "SELEG_RA_REDIS_ADDR")
	setString(&cfg.App.ID, "SELEG_RA_APP_ID")
	setString(&cfg.App.Secret, "SELEG_RA_APP_SECRET")
	setString(&cfg.Vetting.URL, "SELEG_RA_VETTING_URL")
	setString(&cfg.Vetting.RawTimeout, "SELEG_RA_VETTING_TIMEOUT")
	setString(&cfg.ProofingVersion, "SELEG_RA_PROOFING_VERSION")

	setList(&cfg.Gates.AL2Assurances, "SELEG_RA_AL2_ASSURANCES")
	setList(&cfg.Gates.AL2IDPExceptions, "SELEG_RA_AL2_IDP_EXCEPTIONS")
	setList(&cfg.Gates.MFAContextClasses, "SELEG_RA_MFA_AUTHN_CONTEXT_CLASSES")
	setList(&cfg.Gates.MFAIDPExceptions, "SELEG_RA_MFA_IDP_EXCEPTIONS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
