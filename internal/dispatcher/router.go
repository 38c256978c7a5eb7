package dispatcher

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
)

const requestIDLocal = "hookhost_request_id"

// NewApp builds the shared Fiber application: panic recovery, a
// request-ID middleware (surfaced as X-Request-ID), the /-/hooks
// diagnostics routes, and a catch-all handler that routes everything
// else through Server.Handle. Diagnostics paths are recognized before
// the dispatcher's own site-resolution logic ever runs, mirroring the
// reference router's isDiagnosticsPath short-circuit.
func NewApp(s *Server) (*fiber.App, error) {
	if s == nil {
		return nil, errors.New("dispatcher: server is required")
	}

	// BodyLimit is fasthttp's own hard ceiling, enforced before our code
	// ever sees the request; it must sit above UploadMaxUnitSize so that
	// an over-unit (but under-storage) body still reaches collectBody and
	// gets the spec-mandated 406 there, rather than fasthttp's own 413.
	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		BodyLimit:     int(s.Config.UploadMaxStorage),
	})

	app.Use(recover.New())
	app.Use(requestIDMiddleware())

	RegisterDiagnostics(app, s)

	app.All("/*", func(c fiber.Ctx) error {
		if isDiagnosticsPath(requestPath(c)) {
			return c.Next()
		}
		return s.Handle(c)
	})

	return app, nil
}

func requestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals(requestIDLocal, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

func requestPath(c fiber.Ctx) string {
	return string(c.Request().URI().Path())
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
