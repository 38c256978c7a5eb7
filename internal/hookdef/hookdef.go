// Package hookdef is the contract between a hook module (user code, out of
// scope for this implementation) and the registry/executor that load and
// run it. A hook module is a Go plugin (built with
// "go build -buildmode=plugin") exporting a package-level Hooks slice of
// Export values; the loader never inspects anything else about the plugin.
package hookdef

// Body is the shape of a SYNC or EVENT hook function. The returned value
// becomes the chain's lastResult under SYNC; under EVENT the return value
// is ignored and lastResult is left untouched by the caller.
type Body func(ctx *Context, args []any) (any, error)

// Resume is the continuation an ASYNC hook invokes exactly once to resume
// the chain. A second or later call is a documented no-op, per the
// once-only continuation invariant.
type Resume func(result any, err error)

// AsyncBody is the shape of an ASYNC hook function: it receives a resume
// continuation instead of returning directly.
type AsyncBody func(ctx *Context, args []any, resume Resume)

// Export is one named function a hook module publishes for discovery. Name
// is the raw, undecoded identifier (e.g. "hSA_onRequest") the registry
// parses with the naming grammar in internal/hooks. Exactly one of Body or
// AsyncBody should be set; which one the executor calls is determined by
// the policy letter decoded from Name, not by which field is populated, so
// a mismatch (e.g. an "S"-policy name with only AsyncBody set) is treated
// as a load-time error for that single function.
type Export struct {
	Name      string
	Priority  *int // nil means "use the module's default priority"
	Body      Body
	AsyncBody AsyncBody
}

// ModuleDefault is the optional module-wide default priority a plugin can
// publish alongside Hooks; functions that don't set their own Priority
// inherit this value.
type ModuleDefault struct {
	Priority int
}
