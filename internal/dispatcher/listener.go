package dispatcher

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/hookhost/hookhost/internal/config"
	"github.com/hookhost/hookhost/internal/tlsmaterial"
)

// ListenerManager binds the plaintext and (if configured) secure
// listeners a ServerConfig calls for, and hands each one to the shared
// fiber.App on its own goroutine, per §4.4: binding N endpoints never
// blocks on binding N+1, and an incomplete/invalid TLS material skips
// only the secure listeners while plaintext ones still start.
type ListenerManager struct {
	cfg         *config.ServerConfig
	app         *fiber.App
	tlsProvider tlsmaterial.Provider
	logger      *logrus.Logger
}

// NewListenerManager returns a ListenerManager for cfg/app. tlsProvider
// may be nil when cfg has no Secure material at all.
func NewListenerManager(cfg *config.ServerConfig, app *fiber.App, tlsProvider tlsmaterial.Provider, logger *logrus.Logger) *ListenerManager {
	return &ListenerManager{cfg: cfg, app: app, tlsProvider: tlsProvider, logger: logger}
}

// Start binds every configured listener and returns once all of them
// are listening; each one then serves on its own goroutine for the
// lifetime of the process.
func (lm *ListenerManager) Start() error {
	for _, addr := range lm.cfg.Addrs {
		for _, port := range lm.cfg.Ports {
			ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", addr, port))
			if err != nil {
				return fmt.Errorf("binding plaintext listener %s:%d: %w", addr, port, err)
			}
			go lm.serve(ln, addr, port, false)
		}
	}

	if !lm.cfg.TLSEnabled() {
		return nil
	}

	tlsConfig, err := lm.resolveTLSConfig()
	if err != nil {
		lm.logger.WithError(err).Warn("TLS material incomplete or invalid; secure listeners skipped")
		return nil
	}

	for _, addr := range lm.cfg.Addrs {
		for _, port := range lm.cfg.SecurePorts {
			ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", addr, port))
			if err != nil {
				return fmt.Errorf("binding secure listener %s:%d: %w", addr, port, err)
			}
			go lm.serve(tls.NewListener(ln, tlsConfig), addr, port, true)
		}
	}
	return nil
}

func (lm *ListenerManager) resolveTLSConfig() (*tls.Config, error) {
	if lm.tlsProvider == nil {
		return nil, fmt.Errorf("no TLS provider configured")
	}
	return lm.tlsProvider.Config()
}

func (lm *ListenerManager) serve(ln net.Listener, addr string, port int, secure bool) {
	lm.logger.WithFields(logrus.Fields{"addr": addr, "port": port, "secure": secure}).Info("listening")
	if err := lm.app.Listener(ln); err != nil {
		lm.logger.WithError(err).WithFields(logrus.Fields{"addr": addr, "port": port, "secure": secure}).Error("listener stopped")
	}
}
