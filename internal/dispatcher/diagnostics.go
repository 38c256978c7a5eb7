package dispatcher

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hookhost/hookhost/internal/hooks"
)

// hookFunctionSnapshot is one function's metadata as exposed over
// /-/hooks, per §4.2.1.
type hookFunctionSnapshot struct {
	Source   string `json:"source"`
	Policy   string `json:"policy"`
	Mask     int32  `json:"mask"`
	Priority int    `json:"priority"`
}

// hookChainSnapshot is one hookName's registered chain, exposed over
// /-/hooks and /-/hooks/:name.
type hookChainSnapshot struct {
	Name        string                 `json:"name"`
	ChainLength int                    `json:"chain_length"`
	Functions   []hookFunctionSnapshot `json:"functions"`
}

// RegisterDiagnostics mounts the /-/hooks[,/:name] operator endpoints,
// modeled on the reference stack's /-/modules route.
func RegisterDiagnostics(app *fiber.App, s *Server) {
	app.Get("/-/hooks", func(c fiber.Ctx) error {
		names := s.Registry.HookNames()
		snapshots := make([]hookChainSnapshot, 0, len(names))
		for _, name := range names {
			snapshots = append(snapshots, snapshotChain(s.Registry, name))
		}
		return c.JSON(fiber.Map{"hooks": snapshots})
	})

	app.Get("/-/hooks/:name", func(c fiber.Ctx) error {
		name := c.Params("name")
		if _, ok := s.Registry.Lookup(name); !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "hook_not_found"})
		}
		return c.JSON(snapshotChain(s.Registry, name))
	})
}

func snapshotChain(registry *hooks.Registry, name string) hookChainSnapshot {
	funcs := registry.Functions(name)
	fnSnapshots := make([]hookFunctionSnapshot, 0, len(funcs))
	for _, fn := range funcs {
		fnSnapshots = append(fnSnapshots, hookFunctionSnapshot{
			Source:   fn.Source,
			Policy:   fn.Policy.String(),
			Mask:     int32(fn.Mask),
			Priority: fn.Priority,
		})
	}
	return hookChainSnapshot{Name: name, ChainLength: len(funcs), Functions: fnSnapshots}
}
