package config

import (
	"errors"
	"fmt"
)

var validPlaintextPolicies = map[PlaintextPolicy]struct{}{
	PlaintextNone:    {},
	PlaintextUpgrade: {},
	PlaintextReject:  {},
}

// Validate rejects a ServerConfig that would be unsafe or nonsensical to
// start the daemon with: empty bind addresses, empty hostnames, an
// illegal category letter (§9's "A-Z" regex open question resolves to
// "exactly one letter A-Z", either case), or an unrecognized plaintext
// policy.
func (c *ServerConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Addrs) == 0 {
		return newFieldError("Addrs", "must not be empty")
	}
	if len(c.Ports) == 0 {
		return newFieldError("Ports", "must not be empty")
	}
	if _, ok := validPlaintextPolicies[c.PlaintextPolicy]; !ok {
		return newFieldError("PlaintextPolicy", "must be one of none|upgrade|reject")
	}
	if c.BaseDir == "" {
		return newFieldError("BaseDir", "must not be empty")
	}
	if c.CacheSize < 0 {
		return newFieldError("CacheSize", "must not be negative")
	}
	if c.UploadMaxUnitSize <= 0 {
		return newFieldError("UploadMaxUnitSize", "must be greater than 0")
	}
	if c.UploadMaxStorage <= 0 {
		return newFieldError("UploadMaxStorage", "must be greater than 0")
	}
	if c.UploadMaxStorage < c.UploadMaxUnitSize {
		return newFieldError("UploadMaxStorage", "must be at least UploadMaxUnitSize")
	}

	if len(c.Sites) == 0 {
		return errors.New("at least one site must be configured")
	}

	canonical := map[string]struct{}{}
	for key, site := range c.Sites {
		if key != SentinelEmptyHost && key != SentinelAnyHost {
			if err := validateHostList(site.Hosts); err != nil {
				return fmt.Errorf("%s: %w", siteField(key, "Hosts"), err)
			}
		} else if len(site.Hosts) == 0 {
			return newFieldError(siteField(key, "Hosts"), "must not be empty")
		}
		if site.CategoryLetter() == 0 {
			return newFieldError(siteField(key, "Category"), "must be a single letter A-Z")
		}
		canon := site.CanonicalHost()
		if _, dup := canonical[canon]; dup {
			return newFieldError(siteField(key, "Hosts"), "canonical host collides with another site")
		}
		canonical[canon] = struct{}{}
	}

	if c.Secure != nil {
		if c.Secure.CertFile == "" || c.Secure.KeyFile == "" {
			return newFieldError("Secure", "CertFile and KeyFile are both required when Secure is set")
		}
	}

	return nil
}

func validateHostList(hosts []string) error {
	if len(hosts) == 0 {
		return errors.New("must not be empty")
	}
	for _, h := range hosts {
		if h == "" {
			return errors.New("hostnames must not be empty")
		}
	}
	return nil
}
