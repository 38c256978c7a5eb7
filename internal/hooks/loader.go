package hooks

import (
	"fmt"
	"path/filepath"
	"plugin"

	"github.com/hookhost/hookhost/internal/hookdef"
)

// LoadResult reports what came out of loading one module file: how many
// functions were registered, and the per-export failures that didn't
// stop the rest of the module from loading. A single bad export in an
// otherwise-good module never fails the whole load.
type LoadResult struct {
	Source    string
	Loaded    int
	Skipped   []SkipReason
	LoadError error // set when the plugin failed to open or its Hooks export is missing or mistyped
}

// SkipReason records why one exported symbol in an otherwise-loadable
// module was not registered.
type SkipReason struct {
	Name string
	Why  string
}

// Load opens the Go plugin at path, looks up its "Hooks" export, decodes
// each entry's name under the naming grammar, and upserts the resulting
// functions into r under the file's basename as the source identity. A
// reload - calling Load again with the same path after the file on disk
// has changed - first removes every function this source previously
// contributed, without perturbing other sources' functions; a module that
// fails to load therefore contributes no functions.
func (r *Registry) Load(path string) LoadResult {
	source := filepath.Base(path)
	result := LoadResult{Source: source}

	r.RemoveSource(source)

	lib, err := plugin.Open(path)
	if err != nil {
		result.LoadError = fmt.Errorf("open %s: %w", path, err)
		return result
	}

	sym, err := lib.Lookup("Hooks")
	if err != nil {
		result.LoadError = fmt.Errorf("%s: missing Hooks export: %w", path, err)
		return result
	}
	exports, ok := sym.(*[]hookdef.Export)
	if !ok {
		result.LoadError = fmt.Errorf("%s: Hooks export has the wrong type", path)
		return result
	}

	defaultPriority := 0
	if defSym, err := lib.Lookup("Default"); err == nil {
		if def, ok := defSym.(*hookdef.ModuleDefault); ok {
			defaultPriority = def.Priority
		}
	}

	for _, export := range *exports {
		decoded, ok := DecodeName(export.Name)
		if !ok {
			result.Skipped = append(result.Skipped, SkipReason{Name: export.Name, Why: "does not match the hook naming grammar"})
			continue
		}
		switch decoded.Policy {
		case PolicyAsync:
			if export.AsyncBody == nil {
				result.Skipped = append(result.Skipped, SkipReason{Name: export.Name, Why: "ASYNC policy requires AsyncBody"})
				continue
			}
		default:
			if export.Body == nil {
				result.Skipped = append(result.Skipped, SkipReason{Name: export.Name, Why: "SYNC/EVENT policy requires Body"})
				continue
			}
		}

		priority := defaultPriority
		if export.Priority != nil {
			priority = *export.Priority
		}
		fn := newFunction(source, decoded, priority, export.Body, export.AsyncBody)
		r.Upsert(fn)
		result.Loaded++
	}

	return result
}

// Unload removes every function contributed by path, for when a module
// file is deleted rather than replaced.
func (r *Registry) Unload(path string) {
	r.RemoveSource(filepath.Base(path))
}
