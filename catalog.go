package deeplink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// CatalogEntry declares one route of a catalog. Path is the pattern of the
// route from its top-level ancestor, e.g. "item/<id>/edit"; any segment
// wrapped in angle brackets is a variable.
type CatalogEntry struct {
	Name    string `toml:"name" yaml:"name"`
	Path    string `toml:"path" yaml:"path"`
	Kind    Kind   `toml:"kind" yaml:"kind"`
	Example string `toml:"example" yaml:"example"`
}

// Catalog is a declarative description of a route tree. Actions are bound
// separately, by pattern, when the catalog is installed.
type Catalog struct {
	Routes []CatalogEntry `toml:"route" yaml:"routes"`
}

// Catalog formats understood by DecodeCatalog.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// LoadCatalog reads a catalog file, choosing the format from its
// extension (.toml, .yaml or .yml).
func LoadCatalog(path string) (*Catalog, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = FormatTOML
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("deeplink: cannot tell the catalog format of %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deeplink: failed to open catalog: %w", err)
	}
	defer f.Close()

	c, err := DecodeCatalog(f, format)
	if err != nil {
		return nil, fmt.Errorf("deeplink: failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// DecodeCatalog decodes a catalog in the given format and validates it.
func DecodeCatalog(r io.Reader, format string) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("deeplink: unknown catalog format %q", format)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every entry has a usable path, and that no path or
// name is declared twice.
func (c *Catalog) Validate() error {
	var errs []error
	paths := make(map[string]int)
	names := make(map[string]int)
	for i, e := range c.Routes {
		p := normalizePattern(e.Path)
		switch {
		case p == "":
			errs = append(errs, fmt.Errorf("route #%d: %w: empty path", i, ErrInvalidRoute))
			continue
		case isVariableSegment(strings.SplitN(p, "/", 2)[0]):
			errs = append(errs, fmt.Errorf("route #%d (%s): %w: top-level routes cannot be variables", i, e.Path, ErrInvalidRoute))
			continue
		case strings.Contains(p, "//"):
			errs = append(errs, fmt.Errorf("route #%d (%s): %w: empty segment", i, e.Path, ErrInvalidRoute))
			continue
		}

		last := p[strings.LastIndexByte(p, '/')+1:]
		if (last == VariableSegment) != (e.Kind == KindVariable) && e.Kind != KindOther {
			errs = append(errs, fmt.Errorf("route #%d (%s): %w: kind %s does not fit the last segment", i, e.Path, ErrInvalidRoute, e.Kind))
		}
		if j, ok := paths[p]; ok {
			errs = append(errs, fmt.Errorf("route #%d (%s): %w: path already declared by route #%d", i, e.Path, ErrDuplicateRoute, j))
		} else {
			paths[p] = i
		}
		if e.Name == "" {
			continue
		}
		if j, ok := names[e.Name]; ok {
			errs = append(errs, fmt.Errorf("route #%d (%s): %w: name %q already used by route #%d", i, e.Path, ErrDuplicateRoute, e.Name, j))
		} else {
			names[e.Name] = i
		}
	}
	return errors.Join(errs...)
}

// Spec returns the descriptor of the entry called name.
func (c *Catalog) Spec(name string) (Spec, bool) {
	for _, e := range c.Routes {
		if e.Name != name {
			continue
		}
		p := normalizePattern(e.Path)
		last := p[strings.LastIndexByte(p, '/')+1:]
		if last == VariableSegment {
			return Spec{Kind: KindVariable, Example: e.Example}, true
		}
		return Spec{Name: last, Kind: e.Kind, Example: e.Example}, true
	}
	return Spec{}, false
}

// Install builds the routes declared by c into reg. actions maps patterns,
// spelled as in the catalog, to the action bound to that route. Routes
// implied by a path but not declared themselves are created as KindOther
// hubs without actions, and implied routes that reg already has are reused.
// Declared routes that reg already has are reported before anything is
// installed.
func (c *Catalog) Install(reg *Registry, actions map[string]Action) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, e := range c.Routes {
		if existing, ok := reg.Lookup(e.Path); ok {
			return fmt.Errorf("deeplink: failed to install %s: %w", e.Path, existingRouteError(existing))
		}
	}

	bound := make(map[string]Action, len(actions))
	for pattern, action := range actions {
		bound[normalizePattern(pattern)] = action
	}

	entries := append([]CatalogEntry(nil), c.Routes...)
	sort.SliceStable(entries, func(i, j int) bool {
		return depth(entries[i].Path) < depth(entries[j].Path)
	})

	installed := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		p := normalizePattern(e.Path)
		if _, err := installPattern(reg, p, e.Kind, bound[p]); err != nil {
			return fmt.Errorf("deeplink: failed to install %s: %w", e.Path, err)
		}
		installed[p] = struct{}{}
	}

	for pattern := range bound {
		if _, ok := installed[pattern]; !ok {
			reg.logger.WithField("pattern", pattern).Warn("action bound to a pattern the catalog does not declare")
		}
	}
	return nil
}

// installPattern creates the route at pattern, creating missing ancestors as
// hubs on the way.
func installPattern(reg *Registry, pattern string, kind Kind, action Action) (*Route, error) {
	segs := strings.Split(pattern, "/")
	last := len(segs) - 1

	var current *Route
	for i, seg := range segs {
		k, a := KindOther, Action(nil)
		if i == last {
			k, a = kind, action
		}

		if current == nil {
			if i == last {
				top := NewRoute(seg, k, a)
				if err := reg.Register(top); err != nil {
					return nil, err
				}
				current = top
				continue
			}
			if existing := reg.RouteByName(seg); existing != nil {
				current = existing
				continue
			}
			top := NewRoute(seg, KindOther, nil)
			if err := reg.Register(top); err != nil {
				return nil, err
			}
			current = top
			continue
		}

		var next *Route
		var err error
		if isVariableSegment(seg) {
			if next = current.ChildOfKind(KindVariable); next == nil || i == last {
				next, err = current.AddVariable(a)
			}
		} else if next = current.ChildNamed(seg); next == nil || i == last {
			next, err = current.AddRoute(seg, k, a)
		}
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func existingRouteError(r *Route) error {
	var parent string
	if p := r.Parent(); p != nil {
		parent = p.Path()
	}
	return &DuplicateRouteError{Parent: parent, Name: r.Name(), Variable: r.Kind() == KindVariable}
}

func depth(path string) int {
	return strings.Count(normalizePattern(path), "/")
}
