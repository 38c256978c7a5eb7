// Package config decodes and validates the on-disk TOML configuration into
// the typed ServerConfig/SiteConfig values the rest of the daemon consumes.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration accepts both bare-integer seconds and Go duration strings
// ("30s", "5m") when decoded from TOML, the same flexible-unmarshal shape
// the reference config loader uses for its retry/backoff fields.
type Duration time.Duration

// UnmarshalText decodes either a plain integer (seconds) or a
// time.ParseDuration-compatible string into a Duration. Load does not go
// through it: viper decoding uses durationDecodeHook instead.
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = 0
		return nil
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration value: %s", raw)
	}
	*d = Duration(time.Duration(seconds) * time.Second)
	return nil
}

// Value returns the real time.Duration.
func (d Duration) Value() time.Duration {
	return time.Duration(d)
}

// PlaintextPolicy controls how a plaintext connection is treated when the
// server also has secure listeners bound (§4.2 step 2).
type PlaintextPolicy string

const (
	PlaintextNone    PlaintextPolicy = "none"
	PlaintextUpgrade PlaintextPolicy = "upgrade"
	PlaintextReject  PlaintextPolicy = "reject"
)

// SentinelEmptyHost and SentinelAnyHost are the two special host keys a
// SiteConfig map may carry: "!" for an empty/missing Host header, "*" as
// the catch-all.
const (
	SentinelEmptyHost = "!"
	SentinelAnyHost   = "*"
)

// SiteConfig is one logical server identity: a non-empty, ordered host
// list (hosts[0] is canonical), a single category letter, and a
// human-readable description.
type SiteConfig struct {
	Hosts       []string `mapstructure:"Hosts"`
	Category    string   `mapstructure:"Category"`
	Description string   `mapstructure:"Description"`
}

// CanonicalHost returns hosts[0], the prefix used for cache keys and hook
// names for this site.
func (s SiteConfig) CanonicalHost() string {
	if len(s.Hosts) == 0 {
		return ""
	}
	return s.Hosts[0]
}

// CategoryLetter returns the uppercased single-letter category, or 0 if
// Category isn't exactly one A-Z letter.
func (s SiteConfig) CategoryLetter() byte {
	if len(s.Category) != 1 {
		return 0
	}
	c := s.Category[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0
	}
	return c
}

// TLSConfig names the on-disk TLS material the daemon needs to bind
// secure listeners; parsing/loading it is an external collaborator's job
// (internal/tlsmaterial), per §1's out-of-scope list.
type TLSConfig struct {
	CertFile      string `mapstructure:"CertFile"`
	KeyFile       string `mapstructure:"KeyFile"`
	CAFile        string `mapstructure:"CAFile"`
	KeyPassphrase string `mapstructure:"KeyPassphrase"`
}

// Complete reports whether enough material is present to attempt a TLS
// load at all (cert+key are mandatory, CA/passphrase are optional).
func (t *TLSConfig) Complete() bool {
	return t != nil && t.CertFile != "" && t.KeyFile != ""
}

// ServerConfig is the whole of config.toml, decoded.
type ServerConfig struct {
	Addrs             []string          `mapstructure:"Addrs"`
	Ports             []int             `mapstructure:"Ports"`
	SecurePorts       []int             `mapstructure:"SecurePorts"`
	Sites             map[string]SiteConfig `mapstructure:"Sites"`
	Secure            *TLSConfig        `mapstructure:"Secure"`
	PlaintextPolicy   PlaintextPolicy   `mapstructure:"PlaintextPolicy"`
	CacheSize         int64             `mapstructure:"CacheSize"`
	UploadMaxUnitSize int64             `mapstructure:"UploadMaxUnitSize"`
	UploadMaxStorage  int64             `mapstructure:"UploadMaxStorage"`
	BaseDir           string            `mapstructure:"BaseDir"`
	SafeHooks         bool              `mapstructure:"SafeHooks"`
	WatchRecursive    bool              `mapstructure:"WatchRecursive"`
	LogLevel          string            `mapstructure:"LogLevel"`
	LogFilePath       string            `mapstructure:"LogFilePath"`
	LogMaxSize        int               `mapstructure:"LogMaxSize"`
	LogMaxBackups     int               `mapstructure:"LogMaxBackups"`
	LogCompress       bool              `mapstructure:"LogCompress"`
	WatchDebounce     Duration          `mapstructure:"WatchDebounce"`
}

// TLSEnabled reports whether secure listeners were requested at all (as
// opposed to TLSConfig.Complete, which asks whether the material on disk
// is usable).
func (c *ServerConfig) TLSEnabled() bool {
	return c.Secure != nil
}

// SiteFor resolves a Host header (already trimmed by the caller) against
// Sites using the verbatim → "!" → "*" fallback chain from §4.2 step 3.
func (c *ServerConfig) SiteFor(host string) (SiteConfig, bool) {
	if host != "" {
		if site, ok := c.Sites[host]; ok {
			return site, true
		}
	}
	if host == "" {
		if site, ok := c.Sites[SentinelEmptyHost]; ok {
			return site, true
		}
	}
	if site, ok := c.Sites[SentinelAnyHost]; ok {
		return site, true
	}
	return SiteConfig{}, false
}
