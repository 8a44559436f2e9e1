package deeplink

import (
	"fmt"
	"strings"
)

// Kind describes how a route participates in matching and what the
// dispatcher does with the value its action returns.
type Kind int

const (
	KindOther Kind = iota
	KindLiteral
	KindVariable
	KindFixed
	KindPush
	KindModal
	KindSegue
	KindRedirect
	KindAlias
)

var kindNames = [...]string{
	KindOther:    "other",
	KindLiteral:  "literal",
	KindVariable: "variable",
	KindFixed:    "fixed",
	KindPush:     "push",
	KindModal:    "modal",
	KindSegue:    "segue",
	KindRedirect: "redirect",
	KindAlias:    "alias",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a label such as "push" or "Redirect" into a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindOther, fmt.Errorf("deeplink: unknown route kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(data []byte) error {
	v, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
