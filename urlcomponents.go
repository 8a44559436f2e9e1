package deeplink

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

var (
	errBlankURL     = errors.New("blank input")
	errInvalidChars = errors.New("contains whitespace or control characters")
	errOpaqueURL    = errors.New("opaque urls have no path components")
	errNilURL       = errors.New("nil url")
)

// URLComponents decomposes u into route components: the host, without its
// port, followed by the non-empty segments of the path. Segments keep
// their percent-encoding exactly as it appears in u.
func URLComponents(u *url.URL) ([]string, error) {
	if u == nil {
		return nil, &MalformedURLError{Err: errNilURL}
	}
	if u.Opaque != "" {
		return nil, &MalformedURLError{Input: u.String(), Err: errOpaqueURL}
	}

	var components []string
	if host := u.Hostname(); host != "" {
		components = append(components, host)
	}
	for _, seg := range strings.Split(u.EscapedPath(), "/") {
		if seg != "" {
			components = append(components, seg)
		}
	}
	return components, nil
}

// ParseComponents parses s as a URL and decomposes it with URLComponents.
func ParseComponents(s string) ([]string, error) {
	u, err := parseURL(s)
	if err != nil {
		return nil, err
	}
	return URLComponents(u)
}

func parseURL(s string) (*url.URL, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &MalformedURLError{Input: s, Err: errBlankURL}
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return nil, &MalformedURLError{Input: s, Err: errInvalidChars}
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, &MalformedURLError{Input: s, Err: err}
	}
	return u, nil
}
