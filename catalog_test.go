package deeplink_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lestrrat-go/deeplink"
	"github.com/stretchr/testify/require"
)

const tomlCatalog = `
[[route]]
name = "home"
path = "home"
kind = "fixed"
example = "myapp://home"

[[route]]
name = "item"
path = "item/<id>"
example = "myapp://item/12345"

[[route]]
name = "itemEdit"
path = "item/<id>/edit"
kind = "Modal"
example = "myapp://item/12345/edit"

[[route]]
name = "legacy"
path = "old"
kind = "redirect"
`

const yamlCatalog = `
routes:
  - name: home
    path: home
    kind: fixed
  - name: item
    path: item/<id>
  - name: itemEdit
    path: item/<id>/edit
    kind: modal
  - name: legacy
    path: old
    kind: redirect
`

func TestDecodeCatalog(t *testing.T) {
	for _, tc := range []struct {
		Format string
		Input  string
	}{
		{Format: deeplink.FormatTOML, Input: tomlCatalog},
		{Format: deeplink.FormatYAML, Input: yamlCatalog},
	} {
		t.Run(tc.Format, func(t *testing.T) {
			c, err := deeplink.DecodeCatalog(strings.NewReader(tc.Input), tc.Format)
			require.NoError(t, err)
			require.Len(t, c.Routes, 4)
			require.Equal(t, deeplink.KindFixed, c.Routes[0].Kind)
			require.Equal(t, deeplink.KindOther, c.Routes[1].Kind)
			require.Equal(t, deeplink.KindModal, c.Routes[2].Kind)
			require.Equal(t, deeplink.KindRedirect, c.Routes[3].Kind)

			spec, ok := c.Spec("itemEdit")
			require.True(t, ok)
			require.Equal(t, deeplink.Spec{Name: "edit", Kind: deeplink.KindModal}, deeplink.Spec{Name: spec.Name, Kind: spec.Kind})

			spec, ok = c.Spec("item")
			require.True(t, ok)
			require.Equal(t, deeplink.KindVariable, spec.Kind)

			_, ok = c.Spec("nope")
			require.False(t, ok)
		})
	}

	_, err := deeplink.DecodeCatalog(strings.NewReader(tomlCatalog), "json")
	require.Error(t, err, "unknown formats are rejected")

	_, err = deeplink.DecodeCatalog(strings.NewReader(`[[route]]
path = "x"
kind = "sideways"
`), deeplink.FormatTOML)
	require.Error(t, err, "unknown kinds are rejected")
}

func TestCatalogValidate(t *testing.T) {
	testcases := []struct {
		Name    string
		Entries []deeplink.CatalogEntry
		Error   error
	}{
		{
			Name:    "empty path",
			Entries: []deeplink.CatalogEntry{{Path: "/"}},
			Error:   deeplink.ErrInvalidRoute,
		},
		{
			Name:    "variable at the top",
			Entries: []deeplink.CatalogEntry{{Path: "<id>/edit"}},
			Error:   deeplink.ErrInvalidRoute,
		},
		{
			Name:    "empty segment",
			Entries: []deeplink.CatalogEntry{{Path: "item//edit"}},
			Error:   deeplink.ErrInvalidRoute,
		},
		{
			Name:    "variable kind on a literal",
			Entries: []deeplink.CatalogEntry{{Path: "item/edit", Kind: deeplink.KindVariable}},
			Error:   deeplink.ErrInvalidRoute,
		},
		{
			Name:    "duplicate path",
			Entries: []deeplink.CatalogEntry{{Path: "item/<id>"}, {Path: "/item/<other>/"}},
			Error:   deeplink.ErrDuplicateRoute,
		},
		{
			Name:    "duplicate name",
			Entries: []deeplink.CatalogEntry{{Name: "a", Path: "a"}, {Name: "a", Path: "b"}},
			Error:   deeplink.ErrDuplicateRoute,
		},
		{
			Name:    "valid",
			Entries: []deeplink.CatalogEntry{{Path: "item"}, {Path: "item/<id>", Kind: deeplink.KindVariable}},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.Name, func(t *testing.T) {
			c := deeplink.Catalog{Routes: tc.Entries}
			err := c.Validate()
			if tc.Error == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.Error)
		})
	}
}

func TestCatalogInstall(t *testing.T) {
	c, err := deeplink.DecodeCatalog(strings.NewReader(tomlCatalog), deeplink.FormatTOML)
	require.NoError(t, err)
	// declared deeper than any of its ancestors
	c.Routes = append(c.Routes, deeplink.CatalogEntry{Path: "shop/list/filter", Kind: deeplink.KindModal})

	var edited string
	reg := newRegistry()
	require.NoError(t, c.Install(reg, map[string]deeplink.Action{
		"item/<id>/edit": func(req *deeplink.Request) deeplink.Result {
			edited, _ = req.Variable()
			return nil
		},
		"home": func(*deeplink.Request) deeplink.Result {
			return deeplink.Show("home")
		},
	}))

	home := reg.RouteByName("home")
	require.NotNil(t, home)
	require.Equal(t, deeplink.KindFixed, home.Kind())
	require.True(t, home.HasAction())

	r, ok := reg.Lookup("item/<variable>/edit")
	require.True(t, ok)
	require.Equal(t, deeplink.KindModal, r.Kind())

	hub, ok := reg.Lookup("shop/list")
	require.True(t, ok, "implied ancestors are created")
	require.Equal(t, deeplink.KindOther, hub.Kind())
	require.False(t, hub.HasAction())

	require.NoError(t, evaluate(t, reg, []string{"item", "42", "edit"}))
	require.Empty(t, edited, "the last step binds no variable")

	m := reg.Resolve([]string{"item", "42", "edit"})
	v, ok := m.Variable(1)
	require.True(t, ok)
	require.Equal(t, "42", v)

	require.True(t, reg.Resolve([]string{"old", "anything"}).Handled())

	t.Run("conflicts with existing routes", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(deeplink.NewRoute("home", deeplink.KindPush, noop)))
		err := c.Install(reg, nil)
		require.True(t, deeplink.IsDuplicateRoute(err))
		require.Len(t, reg.Routes(), 1, "nothing is installed when a declared route exists")

		reg = newRegistry()
		item := deeplink.NewRoute("item", deeplink.KindOther, noop)
		item.Variable(noop).Route("edit", deeplink.KindPush, noop)
		require.NoError(t, reg.Register(item))
		err = c.Install(reg, nil)
		var dup *deeplink.DuplicateRouteError
		require.ErrorAs(t, err, &dup)
		require.Equal(t, "item", dup.Parent)
		require.True(t, dup.Variable)
		require.Nil(t, reg.RouteByName("home"), "routes declared before the conflict are not installed")
	})
	t.Run("reuses implied routes", func(t *testing.T) {
		reg := newRegistry()
		shop := deeplink.NewRoute("shop", deeplink.KindFixed, noop)
		require.NoError(t, reg.Register(shop))

		c := deeplink.Catalog{Routes: []deeplink.CatalogEntry{{Path: "shop/cart", Kind: deeplink.KindPush}}}
		require.NoError(t, c.Install(reg, nil))
		require.NotNil(t, shop.ChildNamed("cart"))
		require.Len(t, reg.Routes(), 1)
	})
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "routes.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlCatalog), 0o600))
	c, err := deeplink.LoadCatalog(tomlPath)
	require.NoError(t, err)
	require.Len(t, c.Routes, 4)

	yamlPath := filepath.Join(dir, "routes.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlCatalog), 0o600))
	c, err = deeplink.LoadCatalog(yamlPath)
	require.NoError(t, err)
	require.Len(t, c.Routes, 4)

	_, err = deeplink.LoadCatalog(filepath.Join(dir, "routes.json"))
	require.Error(t, err)
	_, err = deeplink.LoadCatalog(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
