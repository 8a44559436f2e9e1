package deeplink_test

import (
	"errors"
	"net/url"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/deeplink"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("top-level duplicates", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(deeplink.NewRoute("home", deeplink.KindFixed, noop)))

		err := reg.Register(deeplink.NewRoute("home", deeplink.KindPush, noop))
		var dup *deeplink.DuplicateRouteError
		require.True(t, errors.As(err, &dup), "error should be a *DuplicateRouteError")
		require.Equal(t, "home", dup.Name)
		require.Empty(t, dup.Parent)

		require.Len(t, reg.Routes(), 1)
		require.Equal(t, deeplink.KindFixed, reg.RouteByName("home").Kind())
	})
	t.Run("registers the top-level ancestor", func(t *testing.T) {
		reg := newRegistry()
		root := deeplink.NewRoute("item", deeplink.KindOther, noop)
		edit := root.Variable(noop).Route("edit", deeplink.KindPush, noop)

		require.NoError(t, reg.Register(edit))
		require.Equal(t, root, reg.RouteByName("item"))
		require.Equal(t, "item/<variable>/edit", edit.Path(), "handles stay valid")
	})
	t.Run("already registered", func(t *testing.T) {
		reg := newRegistry()
		root := deeplink.NewRoute("item", deeplink.KindOther, noop)
		require.NoError(t, reg.Register(root))
		require.ErrorIs(t, reg.Register(root), deeplink.ErrAlreadyRegistered)

		other := newRegistry()
		require.ErrorIs(t, other.Register(root), deeplink.ErrAlreadyRegistered)
		require.Empty(t, other.Routes())
	})
	t.Run("invalid top-level routes", func(t *testing.T) {
		reg := newRegistry()
		require.ErrorIs(t, reg.Register(nil), deeplink.ErrInvalidRoute)
		require.ErrorIs(t, reg.Register(deeplink.NewRoute("", deeplink.KindOther, noop)), deeplink.ErrInvalidRoute)
		require.ErrorIs(t, reg.Register(deeplink.NewRoute("a/b", deeplink.KindOther, noop)), deeplink.ErrInvalidRoute)
		require.ErrorIs(t, reg.Register(deeplink.NewRoute("<variable>", deeplink.KindOther, noop)), deeplink.ErrInvalidRoute)
		require.Empty(t, reg.Routes())
	})
	t.Run("children added after registration", func(t *testing.T) {
		reg := newRegistry()
		root := deeplink.NewRoute("item", deeplink.KindOther, noop)
		require.NoError(t, reg.Register(root))
		require.False(t, reg.Resolve([]string{"item", "new"}).Valid())

		root.Route("new", deeplink.KindPush, noop)
		require.True(t, reg.Resolve([]string{"item", "new"}).Valid())

		r, ok := reg.Lookup("item/new")
		require.True(t, ok, "late children are indexed")
		require.Equal(t, "new", r.Name())
	})
}

func TestRegistryLookups(t *testing.T) {
	reg := newRegistry()
	home := deeplink.NewRoute("home", deeplink.KindFixed, noop)
	cart := deeplink.NewRoute("cart", deeplink.KindFixed, noop)
	item := deeplink.NewRoute("item", deeplink.KindOther, noop)
	item.Variable(noop).Route("edit", deeplink.KindModal, noop)
	for _, r := range []*deeplink.Route{home, cart, item} {
		require.NoError(t, reg.Register(r))
	}

	require.Equal(t, []*deeplink.Route{home, cart, item}, reg.Routes())
	require.Equal(t, []*deeplink.Route{home, cart}, reg.RoutesByKind(deeplink.KindFixed))

	r, ok := reg.RouteFor(deeplink.Spec{Name: "cart", Kind: deeplink.KindFixed})
	require.True(t, ok)
	require.Equal(t, cart, r)
	_, ok = reg.RouteFor(deeplink.Spec{Name: "nope"})
	require.False(t, ok)

	t.Run("Lookup", func(t *testing.T) {
		for _, pattern := range []string{"item/<variable>/edit", "/item/<id>/edit/", "item/<>/edit"} {
			r, ok := reg.Lookup(pattern)
			require.True(t, ok, "pattern %q should exist", pattern)
			require.Equal(t, "edit", r.Name())
		}
		_, ok := reg.Lookup("item/edit")
		require.False(t, ok)
		_, ok = reg.Lookup("")
		require.False(t, ok)
	})
	t.Run("Walk", func(t *testing.T) {
		var patterns []string
		reg.Walk(deeplink.RouteVisitFunc(func(pattern string, r *deeplink.Route) {
			require.Equal(t, pattern, r.Path())
			patterns = append(patterns, pattern)
		}))
		sort.Strings(patterns)

		expected := []string{"cart", "home", "item", "item/<variable>", "item/<variable>/edit"}
		if diff := cmp.Diff(expected, patterns); diff != "" {
			t.Errorf("walked patterns mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("ResolveURL", func(t *testing.T) {
		u, err := url.Parse("myapp://item/42/edit")
		require.NoError(t, err)
		m := reg.ResolveURL(u)
		require.True(t, m.Valid())
		require.Equal(t, "edit", m.Last().Name())

		require.False(t, reg.ResolveURL(&url.URL{Opaque: "x"}).Valid())
	})
}

func TestRegistryEncodedSegments(t *testing.T) {
	c := deeplink.Catalog{Routes: []deeplink.CatalogEntry{
		{Path: "search/caf%C3%A9", Kind: deeplink.KindPush},
		{Path: "search/caf%C3%A9/<id>", Kind: deeplink.KindVariable},
	}}
	reg := newRegistry()
	require.NoError(t, c.Install(reg, nil))

	components, err := deeplink.ParseComponents("myapp://search/caf%C3%A9/7")
	require.NoError(t, err)
	m := reg.Resolve(components)
	require.True(t, m.Handled())

	r, ok := reg.Lookup("search/caf%C3%A9")
	require.True(t, ok, "the pattern is found as the catalog spells it")
	require.Equal(t, m.Routes[1], r)
	_, ok = reg.Lookup("search/caf%25C3%25A9")
	require.False(t, ok, "segments are not escaped twice")

	var patterns []string
	reg.Walk(deeplink.RouteVisitFunc(func(pattern string, r *deeplink.Route) {
		require.Equal(t, pattern, r.Path())
		patterns = append(patterns, pattern)
	}))
	sort.Strings(patterns)

	expected := []string{"search", "search/caf%C3%A9", "search/caf%C3%A9/<variable>"}
	if diff := cmp.Diff(expected, patterns); diff != "" {
		t.Errorf("walked patterns mismatch (-want +got):\n%s", diff)
	}
}
