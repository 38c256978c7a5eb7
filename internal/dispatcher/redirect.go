package dispatcher

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/hookhost/hookhost/internal/config"
)

// maybeRedirect applies the plaintext-upgrade policy (§4.2 step 2) to a
// plaintext connection on a server that also has TLS enabled. It returns
// handled=true when a redirect response was written and the caller must
// not continue to site resolution/hook execution.
func (s *Server) maybeRedirect(c fiber.Ctx) (handled bool, err error) {
	if !s.Config.TLSEnabled() || c.Secure() {
		return false, nil
	}

	switch s.Config.PlaintextPolicy {
	case config.PlaintextReject:
		return true, s.writeRedirect(c)
	case config.PlaintextUpgrade:
		if string(c.Request().Header.Peek("Upgrade-Insecure-Requests")) == "1" {
			return true, s.writeRedirect(c)
		}
		return false, nil
	default: // PlaintextNone
		return false, nil
	}
}

// writeRedirect emits the HTTPS redirect: 301 for GET/HEAD, 308
// otherwise, with Location pointing at the same host and request target
// over https, a Vary header, and a minimal HTML body whose displayed
// text HTML-escapes "<".
func (s *Server) writeRedirect(c fiber.Ctx) error {
	method := c.Method()
	status := fiber.StatusMovedPermanently
	if method != fiber.MethodGet && method != fiber.MethodHead {
		status = fiber.StatusPermanentRedirect
	}

	host := string(c.Request().Header.Peek(fiber.HeaderHost))
	target := "https://" + host + c.OriginalURL()

	c.Set(fiber.HeaderLocation, target)
	c.Set(fiber.HeaderVary, "Upgrade-Insecure-Requests")

	displayed := strings.ReplaceAll(target, "<", "&lt;")
	body := fmt.Sprintf(`<html><body>Please retry over HTTPS: <a href="%s">%s</a></body></html>`, target, displayed)
	return c.Status(status).Type("html").SendString(body)
}
