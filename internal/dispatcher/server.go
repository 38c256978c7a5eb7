// Package dispatcher resolves the site for an incoming request, enforces
// method and upload-size policy, drives the hook chain for the matched
// target, and renders the resulting descriptor.Descriptor into an HTTP
// response, inserting cacheable results into the shared respcache.Cache.
package dispatcher

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/hookhost/hookhost/internal/config"
	"github.com/hookhost/hookhost/internal/hooks"
	"github.com/hookhost/hookhost/internal/respcache"
)

// Server is the shared state every request handler reads: the resolved
// configuration, the hook registry, the response cache, and the
// process-wide pending-upload counter (§5's "pendingUploads counter is
// process-wide and must be updated atomically").
type Server struct {
	Config   *config.ServerConfig
	Registry *hooks.Registry
	Cache    *respcache.Cache
	Logger   *logrus.Logger

	pendingUploads atomic.Int64
}

// NewServer wires the four collaborators a request handler needs.
func NewServer(cfg *config.ServerConfig, registry *hooks.Registry, cache *respcache.Cache, logger *logrus.Logger) *Server {
	return &Server{
		Config:   cfg,
		Registry: registry,
		Cache:    cache,
		Logger:   logger,
	}
}

// PendingUploads reports the current in-flight upload byte count across
// every request being accumulated right now.
func (s *Server) PendingUploads() int64 {
	return s.pendingUploads.Load()
}
