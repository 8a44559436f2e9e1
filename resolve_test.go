package deeplink_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/deeplink"
	"github.com/stretchr/testify/require"
)

func routeNames(m deeplink.Match) []string {
	names := []string{}
	for _, r := range m.Routes {
		if r.Kind() == deeplink.KindVariable {
			names = append(names, deeplink.VariableSegment)
			continue
		}
		names = append(names, r.Name())
	}
	return names
}

func itemTree(t *testing.T) *deeplink.Registry {
	t.Helper()
	reg := newRegistry()

	item := deeplink.NewRoute("item", deeplink.KindOther, noop)
	v := item.Variable(noop)
	v.Route("edit", deeplink.KindOther, noop)
	item.Route("new", deeplink.KindPush, noop)

	legacy := deeplink.NewRoute("legacy", deeplink.KindRedirect, noop)

	require.NoError(t, reg.Register(item))
	require.NoError(t, reg.Register(legacy))
	return reg
}

func TestResolve(t *testing.T) {
	reg := itemTree(t)

	testcases := []struct {
		Components []string
		Expected   []string
		Valid      bool
		Handled    bool
	}{
		{Components: []string{}, Expected: []string{}},
		{Components: []string{"bogus"}, Expected: []string{}},
		{Components: []string{"item"}, Expected: []string{"item"}, Valid: true, Handled: true},
		{Components: []string{"item", "12345"}, Expected: []string{"item", "<variable>"}, Valid: true, Handled: true},
		{Components: []string{"item", "12345", "edit"}, Expected: []string{"item", "<variable>", "edit"}, Valid: true, Handled: true},
		// literal wins over the variable
		{Components: []string{"item", "new"}, Expected: []string{"item", "new"}, Valid: true, Handled: true},
		// no backtracking once the variable branch is taken
		{Components: []string{"item", "12345", "b"}, Expected: []string{"item", "<variable>"}},
		{Components: []string{"item", "new", "edit"}, Expected: []string{"item", "new"}},
		// a redirect consumes whatever follows it
		{Components: []string{"legacy", "x", "y"}, Expected: []string{"legacy"}, Handled: true},
	}

	for _, tc := range testcases {
		t.Run(fmt.Sprintf("components = %q", tc.Components), func(t *testing.T) {
			m := reg.Resolve(tc.Components)
			if diff := cmp.Diff(tc.Expected, routeNames(m)); diff != "" {
				t.Errorf("resolved routes mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, tc.Valid, m.Valid(), "Valid()")
			require.Equal(t, tc.Handled, m.Handled(), "Handled()")
		})
	}
}

func TestResolveDeterminism(t *testing.T) {
	reg := itemTree(t)
	components := []string{"item", "12345", "edit"}

	first := reg.Resolve(components)
	for range 100 {
		m := reg.Resolve(components)
		require.Equal(t, first.Routes, m.Routes, "resolution must not depend on hidden state")
	}
}

func TestMatchVariable(t *testing.T) {
	reg := itemTree(t)

	m := reg.Resolve([]string{"item", "12345", "edit"})
	expected := []struct {
		Value string
		OK    bool
	}{
		{Value: "12345", OK: true}, // followed by the variable
		{Value: "12345", OK: true}, // the variable itself
		{Value: "", OK: false},
	}
	for i, e := range expected {
		v, ok := m.Variable(i)
		require.Equal(t, e.OK, ok, "step %d", i)
		require.Equal(t, e.Value, v, "step %d", i)
	}

	require.Equal(t, []string{"12345", "edit"}, m.Remaining(0))
	require.Equal(t, []string{"edit"}, m.Remaining(1))
	require.Equal(t, []string{}, m.Remaining(2))

	partial := reg.Resolve([]string{"item", "12345", "b"})
	_, ok := partial.Variable(0)
	require.False(t, ok, "partial matches bind no variables")
}

func TestRouteResolve(t *testing.T) {
	root := deeplink.NewRoute("item", deeplink.KindOther, nil)
	v := root.Variable(noop)
	edit := v.Route("edit", deeplink.KindOther, noop)

	m := root.Resolve([]string{"42", "edit"})
	require.True(t, m.Valid(), "resolution starts below the receiver")
	require.Equal(t, edit, m.Last())

	m = v.Resolve([]string{"edit"})
	require.Equal(t, []*deeplink.Route{edit}, m.Routes)
}
