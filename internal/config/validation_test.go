package config

import "testing"

func baseConfig() *ServerConfig {
	return &ServerConfig{
		Addrs:             []string{"0.0.0.0"},
		Ports:             []int{80},
		SecurePorts:       []int{443},
		PlaintextPolicy:   PlaintextNone,
		CacheSize:         1024,
		UploadMaxUnitSize: 512,
		UploadMaxStorage:  1024,
		BaseDir:           "/tmp/hooks",
		Sites: map[string]SiteConfig{
			"example": {Hosts: []string{"example.com"}, Category: "A"},
		},
	}
}

func TestValidateRejectsEmptyAddrs(t *testing.T) {
	cfg := baseConfig()
	cfg.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty Addrs")
	}
}

func TestValidateRejectsBadCategory(t *testing.T) {
	cases := []string{"", "AB", "1", "a-z"}
	for _, cat := range cases {
		cfg := baseConfig()
		cfg.Sites["example"] = SiteConfig{Hosts: []string{"example.com"}, Category: cat}
		if err := cfg.Validate(); err == nil {
			t.Fatalf("category %q: expected error", cat)
		}
	}
}

func TestValidateAcceptsLowercaseCategory(t *testing.T) {
	cfg := baseConfig()
	cfg.Sites["example"] = SiteConfig{Hosts: []string{"example.com"}, Category: "a"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsUploadStorageBelowUnitSize(t *testing.T) {
	cfg := baseConfig()
	cfg.UploadMaxStorage = 10
	cfg.UploadMaxUnitSize = 100
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when UploadMaxStorage < UploadMaxUnitSize")
	}
}

func TestValidateRejectsIncompleteTLS(t *testing.T) {
	cfg := baseConfig()
	cfg.Secure = &TLSConfig{CertFile: "cert.pem"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for TLS config missing KeyFile")
	}
}

func TestValidateAllowsSentinelHostsWithoutHostname(t *testing.T) {
	cfg := baseConfig()
	cfg.Sites[SentinelEmptyHost] = SiteConfig{Hosts: []string{"!"}, Category: "B"}
	cfg.Sites[SentinelAnyHost] = SiteConfig{Hosts: []string{"*"}, Category: "C"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestSiteForFallbackChain(t *testing.T) {
	cfg := baseConfig()
	cfg.Sites = map[string]SiteConfig{
		SentinelEmptyHost: {Hosts: []string{"default.local"}, Category: "A"},
		SentinelAnyHost:   {Hosts: []string{"catchall.local"}, Category: "B"},
	}

	if site, ok := cfg.SiteFor(""); !ok || site.CanonicalHost() != "default.local" {
		t.Fatalf("empty host should resolve to the \"!\" site, got %+v, ok=%v", site, ok)
	}
	if site, ok := cfg.SiteFor("x.example"); !ok || site.CanonicalHost() != "catchall.local" {
		t.Fatalf("unknown host should resolve to the \"*\" site, got %+v, ok=%v", site, ok)
	}

	delete(cfg.Sites, SentinelAnyHost)
	if _, ok := cfg.SiteFor("x.example"); ok {
		t.Fatalf("expected no match once \"*\" is absent")
	}
}
