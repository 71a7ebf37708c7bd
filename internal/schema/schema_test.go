package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightedGraph() *Builder {
	return NewBuilder("WeightedGraph").
		AddOb("V", "E").
		AddHom("src", "E", "V").
		AddHom("tgt", "E", "V").
		AddAttrType("Weight").
		AddAttr("weight", "E", "Weight")
}

func TestBuildResolvesIDs(t *testing.T) {
	s, err := weightedGraph().Build()
	require.NoError(t, err)

	assert.Equal(t, "WeightedGraph", s.Name())
	assert.Equal(t, 2, s.NumObs())
	assert.Equal(t, 2, s.NumHoms())

	v, ok := s.ObID("V")
	require.True(t, ok)
	e, ok := s.ObID("E")
	require.True(t, ok)

	src, ok := s.HomID("src")
	require.True(t, ok)
	assert.Equal(t, Hom{Name: "src", Dom: e, Codom: v}, s.Hom(src))

	weight, ok := s.AttrID("weight")
	require.True(t, ok)
	assert.Equal(t, e, s.Attr(weight).Dom)

	_, ok = s.ObID("W")
	assert.False(t, ok)
}

func TestDispatchTables(t *testing.T) {
	s := weightedGraph().MustBuild()
	v, _ := s.ObID("V")
	e, _ := s.ObID("E")
	src, _ := s.HomID("src")
	tgt, _ := s.HomID("tgt")
	weight, _ := s.AttrID("weight")
	wt, _ := s.AttrTypeID("Weight")

	assert.Equal(t, []HomID{src, tgt}, s.OutHoms(e))
	assert.Empty(t, s.OutHoms(v))
	assert.Equal(t, []HomID{src, tgt}, s.InHoms(v))
	assert.Equal(t, []AttrID{weight}, s.AttrsOf(e))
	assert.Empty(t, s.AttrsOf(v))
	assert.Equal(t, []AttrID{weight}, s.AttrsOfType(wt))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		code ErrorCode
	}{
		{"duplicate ob", NewBuilder("").AddOb("V", "V"), ErrCodeDuplicateName},
		{"hom shadows ob", NewBuilder("").AddOb("V").AddHom("V", "V", "V"), ErrCodeDuplicateName},
		{"unknown hom domain", NewBuilder("").AddOb("V").AddHom("f", "X", "V"), ErrCodeUnknownOb},
		{"unknown hom codomain", NewBuilder("").AddOb("V").AddHom("f", "V", "X"), ErrCodeUnknownOb},
		{"unknown attr type", NewBuilder("").AddOb("V").AddAttr("a", "V", "T"), ErrCodeUnknownAttrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			require.Error(t, err)
			assert.True(t, IsSchemaError(err, tt.code), "got %v", err)
		})
	}
}

func TestSelfLoopSchema(t *testing.T) {
	s := NewBuilder("DDS").AddOb("X").AddHom("next", "X", "X").MustBuild()
	x, _ := s.ObID("X")
	next, _ := s.HomID("next")
	assert.Equal(t, []HomID{next}, s.OutHoms(x))
	assert.Equal(t, []HomID{next}, s.InHoms(x))
}

func TestEqual(t *testing.T) {
	a := weightedGraph().MustBuild()
	b := weightedGraph().MustBuild()
	c := NewBuilder("Graph").AddOb("V", "E").AddHom("src", "E", "V").AddHom("tgt", "E", "V").MustBuild()

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
