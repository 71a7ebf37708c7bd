package testutil

import (
	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// GraphSchema returns the schema of directed multigraphs:
// objects V, E and morphisms src, tgt: E -> V.
func GraphSchema() *schema.Schema {
	return schema.NewBuilder("Graph").
		AddOb("V", "E").
		AddHom("src", "E", "V").
		AddHom("tgt", "E", "V").
		MustBuild()
}

// LabeledGraphSchema extends GraphSchema with a vertex label attribute
// vlabel: V -> Label.
func LabeledGraphSchema() *schema.Schema {
	return schema.NewBuilder("LabeledGraph").
		AddOb("V", "E").
		AddHom("src", "E", "V").
		AddHom("tgt", "E", "V").
		AddAttrType("Label").
		AddAttr("vlabel", "V", "Label").
		MustBuild()
}

// ReflexiveGraphSchema adds refl: V -> E, making src/tgt/refl a cyclic
// schema.
func ReflexiveGraphSchema() *schema.Schema {
	return schema.NewBuilder("ReflexiveGraph").
		AddOb("V", "E").
		AddHom("src", "E", "V").
		AddHom("tgt", "E", "V").
		AddHom("refl", "V", "E").
		MustBuild()
}

// DynamicalSchema is a single object X with a self-loop next: X -> X.
func DynamicalSchema() *schema.Schema {
	return schema.NewBuilder("Dynamical").
		AddOb("X").
		AddHom("next", "X", "X").
		MustBuild()
}

// Graph builds a graph over s with nv vertices and the given edges (each a
// (src, tgt) pair). s must declare V, E, src and tgt.
func Graph(s *schema.Schema, nv int, edges ...[2]int) *acset.Structure {
	g := acset.New(s)
	v := acset.MustOb(s, "V")
	e := acset.MustOb(s, "E")
	src := acset.MustHom(s, "src")
	tgt := acset.MustHom(s, "tgt")
	g.AddParts(v, nv)
	g.AddParts(e, len(edges))
	for i, edge := range edges {
		mustSet(g.SetSubpart(src, i+1, edge[0]))
		mustSet(g.SetSubpart(tgt, i+1, edge[1]))
	}
	return g
}

// Path returns the directed path with n edges: 1 -> 2 -> ... -> n+1.
func Path(n int) *acset.Structure {
	edges := make([][2]int, n)
	for i := range edges {
		edges[i] = [2]int{i + 1, i + 2}
	}
	return Graph(GraphSchema(), n+1, edges...)
}

// Cycle returns the directed cycle with n vertices: 1 -> 2 -> ... -> n -> 1.
func Cycle(n int) *acset.Structure {
	edges := make([][2]int, n)
	for i := range edges {
		edges[i] = [2]int{i + 1, (i+1)%n + 1}
	}
	return Graph(GraphSchema(), n, edges...)
}

// Labeled attaches vertex labels to a graph over LabeledGraphSchema.
func Labeled(nv int, labels []string, edges ...[2]int) *acset.Structure {
	s := LabeledGraphSchema()
	g := Graph(s, nv, edges...)
	vals := make([]ir.IRValue, len(labels))
	for i, l := range labels {
		vals[i] = ir.IRString(l)
	}
	mustSet(g.SetAttrs(acset.MustAttr(s, "vlabel"), vals))
	return g
}

// Reflexive builds a reflexive graph: every vertex v gets a loop edge
// refl(v) numbered v, followed by the given extra edges.
func Reflexive(nv int, edges ...[2]int) *acset.Structure {
	s := ReflexiveGraphSchema()
	all := make([][2]int, 0, nv+len(edges))
	for v := 1; v <= nv; v++ {
		all = append(all, [2]int{v, v})
	}
	all = append(all, edges...)
	g := Graph(s, nv, all...)
	refl := acset.MustHom(s, "refl")
	for v := 1; v <= nv; v++ {
		mustSet(g.SetSubpart(refl, v, v))
	}
	return g
}

// Dynamical builds a discrete dynamical system with next[i-1] = next(i).
func Dynamical(next ...int) *acset.Structure {
	s := DynamicalSchema()
	d := acset.New(s)
	d.AddParts(acset.MustOb(s, "X"), len(next))
	mustSet(d.SetSubparts(acset.MustHom(s, "next"), next))
	return d
}

func mustSet(err error) {
	if err != nil {
		panic(err)
	}
}
