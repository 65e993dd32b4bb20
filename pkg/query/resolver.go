package query

// Expressions are caller supplied dimensions and metrics, consulted after the
// schema's own Stats maps.
type Expressions struct {
	Dimensions map[string]string
	Metrics    map[string]string
}

type Source int

const (
	StaticSource Source = iota
	DynamicSource
)

// Resolution is either Resolved or Unresolved.
type Resolution interface {
	resolution()
}

type Resolved struct {
	Name       string
	Expression string
	Source     Source
}

type Unresolved struct {
	Name string
}

func (Resolved) resolution()   {}
func (Unresolved) resolution() {}

// Resolver looks names up in the schema's stats config, then in the dynamic map.
type Resolver struct {
	static  *StatsConfig
	dynamic *Expressions
}

func NewResolver(s *Schema, dynamic *Expressions) Resolver {
	if dynamic == nil {
		dynamic = &Expressions{}
	}
	return Resolver{static: s.stats(), dynamic: dynamic}
}

func (r Resolver) Dimension(name string) Resolution {
	return lookup(name, r.static.Dimensions, r.dynamic.Dimensions)
}

func (r Resolver) Metric(name string) Resolution {
	return lookup(name, r.static.Metrics, r.dynamic.Metrics)
}

func lookup(name string, static, dynamic map[string]string) Resolution {
	if expr := static[name]; expr != "" {
		return Resolved{Name: name, Expression: expr, Source: StaticSource}
	}
	if expr := dynamic[name]; expr != "" {
		return Resolved{Name: name, Expression: expr, Source: DynamicSource}
	}
	return Unresolved{Name: name}
}
