package builder

import (
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxGap      = time.Hour
	DefaultMaxInstants = 10000
	DefaultIdleExpiry  = 10 * time.Minute
)

type Config struct {
	MaxGap        time.Duration `yaml:"max_gap" json:"max_gap"`
	MaxInstants   int           `yaml:"max_instants" json:"max_instants"`
	IdleExpiry    time.Duration `yaml:"idle_expiry" json:"idle_expiry"`
	Interpolation string        `yaml:"interpolation" json:"interpolation"`
}

// UnmarshalYAML accepts durations either as go duration strings ("30m")
// or as plain second counts.
func (cfg *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxGap        string `yaml:"max_gap"`
		MaxInstants   int    `yaml:"max_instants"`
		IdleExpiry    string `yaml:"idle_expiry"`
		Interpolation string `yaml:"interpolation"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	maxGap, err := parseDuration(raw.MaxGap)
	if err != nil {
		return err
	}

	idleExpiry, err := parseDuration(raw.IdleExpiry)
	if err != nil {
		return err
	}

	cfg.MaxGap = maxGap
	cfg.MaxInstants = raw.MaxInstants
	cfg.IdleExpiry = idleExpiry
	cfg.Interpolation = raw.Interpolation

	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	secs, err := cast.ToInt64E(s)
	if err != nil {
		return 0, err
	}

	return time.Duration(secs) * time.Second, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.MaxGap <= 0 {
		cfg.MaxGap = DefaultMaxGap
	}

	if cfg.MaxInstants <= 0 {
		cfg.MaxInstants = DefaultMaxInstants
	}

	if cfg.IdleExpiry <= 0 {
		cfg.IdleExpiry = DefaultIdleExpiry
	}
}

func ParseConfig(d []byte) (cfg Config, err error) {
	err = yaml.Unmarshal(d, &cfg)
	if err != nil {
		return
	}

	cfg.applyDefaults()

	return
}
