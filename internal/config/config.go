package config

import (
	"encoding/json"
	"os"
	"strconv"

	"umcp/domain/regime"
	"umcp/domain/transport"
	"umcp/domain/weld"
	"umcp/internal/errors"
)

// Config is the full toolkit configuration read from a JSON file with
// nested sections. Tolerances stay optional all the way down: an absent
// value must reach the evaluator as Unknown, never as a default.
type Config struct {
	Tolerances weld.ToleranceSpec `json:"tolerances"`
	Gates      GatesConfig        `json:"gates"`
	Kernel     KernelConfig       `json:"kernel"`
	Ledger     LedgerConfig       `json:"ledger"`
}

// GatesConfig overrides the regime gates; nil fields keep the published
// defaults.
type GatesConfig struct {
	OmegaWatch    *float64 `json:"omega_watch,omitempty"`
	OmegaCollapse *float64 `json:"omega_collapse,omitempty"`
	CWatch        *float64 `json:"c_watch,omitempty"`
}

// KernelConfig overrides the transport kernel constants.
type KernelConfig struct {
	Alpha *float64 `json:"alpha,omitempty"`
	Eps   *float64 `json:"eps,omitempty"`
	P     *float64 `json:"p,omitempty"`
	TolT  *float64 `json:"tolT,omitempty"`
	TolW  *float64 `json:"tolW,omitempty"`
	Pivot *float64 `json:"pivot,omitempty"`
}

// LedgerConfig locates the optional run ledger.
type LedgerConfig struct {
	Path string `json:"path,omitempty"`
}

// Load reads the JSON config at path. An empty path yields the zero
// config (every tolerance unresolved).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigInvalid("config " + path + ": " + err.Error())
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment overrides over the file values. Only the
// ledger path and gate values come from env; tolerances are file-only so
// an unresolved tolerance is always a deliberate omission.
func (c *Config) applyEnv() {
	if v := os.Getenv("UMCP_LEDGER"); v != "" {
		c.Ledger.Path = v
	}
	if v := envFloat("UMCP_OMEGA_WATCH"); v != nil {
		c.Gates.OmegaWatch = v
	}
	if v := envFloat("UMCP_OMEGA_COLLAPSE"); v != nil {
		c.Gates.OmegaCollapse = v
	}
	if v := envFloat("UMCP_C_WATCH"); v != nil {
		c.Gates.CWatch = v
	}
}

// ResolveTolerances maps the tolerance section through the weld resolver.
func (c *Config) ResolveTolerances() weld.Tolerances {
	return weld.Resolve(c.Tolerances)
}

// ResolveGates merges overrides onto the default gates.
func (c *Config) ResolveGates() regime.Gates {
	g := regime.DefaultGates()
	if c.Gates.OmegaWatch != nil {
		g.OmegaWatch = *c.Gates.OmegaWatch
	}
	if c.Gates.OmegaCollapse != nil {
		g.OmegaCollapse = *c.Gates.OmegaCollapse
	}
	if c.Gates.CWatch != nil {
		g.CWatch = *c.Gates.CWatch
	}
	return g
}

// ResolveKernel merges overrides onto the published kernel constants.
func (c *Config) ResolveKernel() transport.Kernel {
	k := transport.DefaultKernel()
	if c.Kernel.Alpha != nil {
		k.Alpha = *c.Kernel.Alpha
	}
	if c.Kernel.Eps != nil {
		k.Eps = *c.Kernel.Eps
	}
	if c.Kernel.P != nil {
		k.P = *c.Kernel.P
	}
	if c.Kernel.TolT != nil {
		k.TolT = *c.Kernel.TolT
	}
	if c.Kernel.TolW != nil {
		k.TolW = *c.Kernel.TolW
	}
	if c.Kernel.Pivot != nil {
		k.Pivot = *c.Kernel.Pivot
	}
	return k
}

func envFloat(key string) *float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return &f
		}
	}
	return nil
}
