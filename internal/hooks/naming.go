package hooks

import "strings"

// Policy is the execution discipline a hook function runs under, decoded
// from the policy letter in its exported name.
type Policy int

const (
	// PolicySync runs to completion and feeds its return value into the
	// chain's lastResult before the next function starts.
	PolicySync Policy = iota
	// PolicyAsync suspends the chain until it invokes its resume
	// continuation.
	PolicyAsync
	// PolicyEvent runs to completion but its return value is discarded;
	// lastResult passes through unchanged.
	PolicyEvent
)

func (p Policy) String() string {
	switch p {
	case PolicySync:
		return "SYNC"
	case PolicyAsync:
		return "ASYNC"
	case PolicyEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// CategoryMask is a bitset over the 26 single-letter categories (bit 0 is
// 'A', bit 25 is 'Z'). AllCats is the sentinel a bare, category-less name
// decodes to: it is not "category zero", it matches every INCLUSIVE query
// and only an identical AllCats under STRICT.
type CategoryMask int32

const AllCats CategoryMask = -1

// CategoryBit returns the bit for a single A-Z letter, case-insensitively.
func CategoryBit(letter byte) CategoryMask {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	return 1 << CategoryMask(letter-'A')
}

// Matches reports whether fnMask satisfies a query for requested under the
// given strictness. INCLUSIVE matches on any shared bit; AllCats always
// satisfies an INCLUSIVE query. STRICT requires the masks to be identical.
func Matches(fnMask, requested CategoryMask, strict bool) bool {
	if strict {
		return fnMask == requested
	}
	return fnMask&requested != 0
}

// DecodedName is the result of parsing a hook function's exported name
// under the h[SAE][A-Z]*_<hookName> grammar.
type DecodedName struct {
	Policy   Policy
	Mask     CategoryMask
	HookName string
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func decodePolicyLetter(b byte) (Policy, bool) {
	switch b {
	case 'S', 's':
		return PolicySync, true
	case 'A', 'a':
		return PolicyAsync, true
	case 'E', 'e':
		return PolicyEvent, true
	default:
		return 0, false
	}
}

func policyLetter(p Policy) byte {
	switch p {
	case PolicySync:
		return 'S'
	case PolicyAsync:
		return 'A'
	case PolicyEvent:
		return 'E'
	default:
		return '?'
	}
}

// DecodeName parses name under h[SAE][A-Z]*_<hookName>. The leading "h" is
// literal; the policy letter and the run of category letters that follow
// it are case-insensitive. Anything that doesn't fit the grammar reports
// ok=false rather than an error, since a module's exported symbol list may
// legitimately contain names the registry doesn't care about.
func DecodeName(name string) (decoded DecodedName, ok bool) {
	if len(name) < 3 || name[0] != 'h' {
		return DecodedName{}, false
	}
	policy, ok := decodePolicyLetter(name[1])
	if !ok {
		return DecodedName{}, false
	}

	i := 2
	mask := CategoryMask(0)
	for i < len(name) && isAlpha(name[i]) {
		mask |= CategoryBit(name[i])
		i++
	}
	if i >= len(name) || name[i] != '_' {
		return DecodedName{}, false
	}
	hookName := name[i+1:]
	if hookName == "" {
		return DecodedName{}, false
	}
	if mask == 0 {
		mask = AllCats
	}
	return DecodedName{Policy: policy, Mask: mask, HookName: hookName}, true
}

// EncodeName renders d back into the canonical h[SAE][A-Z]*_<hookName>
// form: uppercase policy letter, categories in ascending letter order,
// omitted entirely when the mask is AllCats.
func EncodeName(d DecodedName) string {
	var b strings.Builder
	b.WriteByte('h')
	b.WriteByte(policyLetter(d.Policy))
	if d.Mask != AllCats {
		for c := byte('A'); c <= 'Z'; c++ {
			if d.Mask&CategoryBit(c) != 0 {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('_')
	b.WriteString(d.HookName)
	return b.String()
}
