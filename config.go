package deeplink

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a Registry. The zero value of a field means
// "use the default", except where noted.
type Config struct {
	// StepTimeout bounds how long an evaluation waits for a navigator to
	// finish a transition. Negative disables the bound.
	StepTimeout Duration `toml:"step_timeout" yaml:"step_timeout"`

	// GateTimeout is how long a session may hold the admission gate before
	// a new evaluation is allowed to abort it and take over. Negative
	// disables takeover.
	GateTimeout Duration `toml:"gate_timeout" yaml:"gate_timeout"`

	// RedirectDelay is the pause before the target of a redirect is
	// evaluated.
	RedirectDelay Duration `toml:"redirect_delay" yaml:"redirect_delay"`

	// MaxRedirects limits redirect chains started by one evaluation.
	MaxRedirects int `toml:"max_redirects" yaml:"max_redirects"`

	// Animated is the default for evaluations that do not say otherwise.
	Animated bool `toml:"animated" yaml:"animated"`
}

const (
	DefaultStepTimeout   = 10 * time.Second
	DefaultGateTimeout   = 30 * time.Second
	DefaultRedirectDelay = time.Millisecond
	DefaultMaxRedirects  = 16
)

func DefaultConfig() Config {
	return Config{
		StepTimeout:   Duration(DefaultStepTimeout),
		GateTimeout:   Duration(DefaultGateTimeout),
		RedirectDelay: Duration(DefaultRedirectDelay),
		MaxRedirects:  DefaultMaxRedirects,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.StepTimeout == 0 {
		c.StepTimeout = def.StepTimeout
	}
	if c.GateTimeout == 0 {
		c.GateTimeout = def.GateTimeout
	}
	if c.RedirectDelay == 0 {
		c.RedirectDelay = def.RedirectDelay
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = def.MaxRedirects
	}
	return c
}

// LoadConfig reads a TOML file. Fields missing from the file keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("deeplink: failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Duration is a time.Duration that decodes from strings such as "250ms".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(data []byte) error {
	v, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}
