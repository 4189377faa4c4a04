// Package config loads and validates tool configuration.
//
// Configuration lives in an optional CUE file that is unified against
// the embedded schema, so defaults, types, and ranges are all enforced
// in one place. A .env file and the KINTAI_DB environment variable can
// override the database path, which keeps test and deployment setups
// out of the config file.
package config

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	_ "embed"

	"github.com/joho/godotenv"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded, validated configuration.
type Config struct {
	Database         string `json:"database"`
	UTCOffsetMinutes int    `json:"utc_offset_minutes"`
	Policy           struct {
		MaxPastDays int  `json:"max_past_days"`
		QuietHours  bool `json:"quiet_hours"`
	} `json:"policy"`
}

// Offset returns the configured local offset as a duration.
func (c *Config) Offset() time.Duration {
	return time.Duration(c.UTCOffsetMinutes) * time.Minute
}

// Load reads configuration from path. An empty path loads pure schema
// defaults; a missing explicit path is an error. Environment overrides
// (including a .env file in the working directory) are applied last.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()
	if db := os.Getenv("KINTAI_DB"); db != "" {
		cfg.Database = db
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	val := schema.LookupPath(cue.ParsePath("#Config"))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		user := ctx.CompileBytes(data, cue.Filename(path))
		if err := user.Err(); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		val = val.Unify(user)
	}

	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	var cfg Config
	if err := val.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
