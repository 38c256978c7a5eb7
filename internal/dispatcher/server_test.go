package dispatcher

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hookhost/hookhost/internal/config"
	"github.com/hookhost/hookhost/internal/hooks"
	"github.com/hookhost/hookhost/internal/respcache"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func baseTestConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Addrs:             []string{"0.0.0.0"},
		Ports:             []int{80},
		SecurePorts:       []int{443},
		PlaintextPolicy:   config.PlaintextNone,
		CacheSize:         1024 * 1024,
		UploadMaxUnitSize: 4096,
		UploadMaxStorage:  1024 * 1024,
		SafeHooks:         true,
		Sites: map[string]config.SiteConfig{
			"example.test": {Hosts: []string{"example.test"}, Category: "A", Description: "example site"},
		},
	}
}

func newTestServer(cfg *config.ServerConfig) (*Server, *hooks.Registry) {
	registry := hooks.NewRegistry()
	cache := respcache.New(cfg.CacheSize)
	return NewServer(cfg, registry, cache, testLogger()), registry
}
