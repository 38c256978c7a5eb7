package hooks

import "github.com/hookhost/hookhost/internal/hookdef"

// Function is one decoded, loaded hook function. Source identifies the
// plugin file it came from; together with HookName it forms the identity
// a reload replaces in place (§4.1: "two functions with the same source
// and hookName replace each other on reload").
type Function struct {
	Source    string
	HookName  string
	Mask      CategoryMask
	Priority  int
	Policy    Policy
	Body      hookdef.Body
	AsyncBody hookdef.AsyncBody
}

func newFunction(source string, decoded DecodedName, priority int, body hookdef.Body, asyncBody hookdef.AsyncBody) *Function {
	return &Function{
		Source:    source,
		HookName:  decoded.HookName,
		Mask:      decoded.Mask,
		Priority:  priority,
		Policy:    decoded.Policy,
		Body:      body,
		AsyncBody: asyncBody,
	}
}
