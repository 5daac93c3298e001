package wire

import "fmt"

// Kind is the message kind ordinal carried in every frame.
type Kind uint32

const (
	// KindDefault is ordinary talk between agents.
	KindDefault Kind = iota
	// KindGreeting is the first message an invited agent sends its inviter.
	KindGreeting
)

// Kinds returns every known kind.
func Kinds() []Kind { return []Kind{KindDefault, KindGreeting} }

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDefault, KindGreeting:
		return true
	default:
		return false
	}
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindGreeting:
		return "greeting"
	default:
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
}

// ParseKind resolves a kind by name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("wire: unknown kind %q", s)
}
