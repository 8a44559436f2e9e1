package deeplink

import (
	"iter"
	"strings"

	"github.com/lestrrat-go/trie/v2"
)

// VariableSegment is how variable routes are spelled in route patterns,
// e.g. "item/<variable>/edit".
const VariableSegment = "<variable>"

type impl = trie.Trie[string, string, *Route]

// pathtrie indexes every route of an arena by its pattern.
type pathtrie struct {
	*impl
}

func newPathtrie() *pathtrie {
	return &pathtrie{
		impl: trie.New[string, string, *Route](pathTokenizer{}),
	}
}

type pathTokenizer struct{}

func (pathTokenizer) Tokenize(s string) (iter.Seq[string], error) {
	comps := strings.Split(s, "/")
	return func(yield func(string) bool) {
		for _, c := range comps {
			if !yield(c) {
				break
			}
		}
	}, nil
}

// segmentLabel is the pattern segment for a route. Literal names are used
// as they are; validName keeps them apart from separators and variables.
func segmentLabel(r *Route) string {
	if r.kind == KindVariable {
		return VariableSegment
	}
	return r.name
}

// validName reports whether name can label a literal route.
func validName(name string) bool {
	return name != "" && !strings.Contains(name, "/") && !isVariableSegment(name)
}

// isVariableSegment reports whether a catalog or lookup segment denotes a
// variable, i.e. is wrapped in angle brackets.
func isVariableSegment(s string) bool {
	return len(s) >= 2 && s[0] == '<' && s[len(s)-1] == '>'
}

// normalizePattern rewrites every <name> segment of a user supplied pattern
// to VariableSegment and trims surrounding slashes.
func normalizePattern(pattern string) string {
	pattern = strings.Trim(pattern, "/")
	if pattern == "" {
		return ""
	}
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if isVariableSegment(s) {
			segs[i] = VariableSegment
		}
	}
	return strings.Join(segs, "/")
}
