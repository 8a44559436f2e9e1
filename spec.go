package deeplink

// Spec describes a route symbolically, so that call sites can refer to
// routes through constants instead of raw strings.
type Spec struct {
	Name    string
	Kind    Kind
	Example string // an example deep link reaching the route, for documentation
}

// Descriptor is implemented by anything that can describe a route,
// typically an enumerated type of the application's routes.
type Descriptor interface {
	RouteSpec() Spec
}

func (s Spec) RouteSpec() Spec {
	return s
}

// Variable describes a component holding a wildcard value. When passed to
// ComponentsOf it contributes value verbatim.
func Variable(value string) Spec {
	return Spec{Name: value, Kind: KindVariable}
}

// ComponentsOf returns the component names of ds, in order.
func ComponentsOf(ds ...Descriptor) []string {
	components := make([]string, 0, len(ds))
	for _, d := range ds {
		components = append(components, d.RouteSpec().Name)
	}
	return components
}
