package finset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeVectors(t *testing.T) {
	f := MustVector(Range(3), Range(2), []int{2, 1, 2})
	g := MustVector(Range(2), Range(4), []int{4, 3})

	h, err := Compose(f, g)
	require.NoError(t, err)

	v, ok := h.(*Vector)
	require.True(t, ok, "vector composition stays a vector")
	assert.Equal(t, []int{3, 4, 3}, Values(v))
	assert.Equal(t, 4, v.Codom().Len())
}

func TestComposeMismatch(t *testing.T) {
	f := MustVector(Range(3), Range(2), []int{2, 1, 2})
	g := MustVector(Range(3), Range(3), []int{1, 2, 3})

	_, err := Compose(f, g)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeCodomainMismatch))
}

func TestComposeIdentityAbsorbed(t *testing.T) {
	f := MustVector(Range(3), Range(2), []int{2, 1, 2})

	left := MustCompose(NewIdentity(Range(3)), f)
	right := MustCompose(f, NewIdentity(Range(2)))

	assert.Same(t, f, left)
	assert.Same(t, f, right)
}

func TestComposeGeneralIsPointwise(t *testing.T) {
	f := NewRule(Range(3), Range(3), func(x int) int { return 4 - x })
	g := MustVector(Range(3), Range(3), []int{2, 3, 1})

	h := MustCompose(f, g)
	_, isRule := h.(*Rule)
	assert.True(t, isRule)
	assert.Equal(t, []int{1, 3, 2}, Values(h))
}

func TestForce(t *testing.T) {
	r := NewRule(Range(4), Range(2), func(x int) int { return x%2 + 1 })
	v, err := Force(r)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2, 1}, Values(v))

	same, err := Force(v)
	require.NoError(t, err)
	assert.Same(t, v, same)

	_, err = Force(NewRule(Range(1), Range(2), func(int) int { return 9 }))
	assert.True(t, HasCode(err, ErrCodeValueOutOfRange))

	_, err = Force(NewIdentity(Of(3, 5)))
	assert.True(t, HasCode(err, ErrCodeNotRangeDomain))
}

func TestInjectiveSurjective(t *testing.T) {
	inj := MustVector(Range(2), Range(3), []int{3, 1})
	assert.True(t, IsInjective(inj))
	assert.False(t, IsSurjective(inj))

	surj := MustVector(Range(3), Range(2), []int{1, 2, 2})
	assert.False(t, IsInjective(surj))
	assert.True(t, IsSurjective(surj))

	assert.True(t, IsInjective(NewIdentity(Range(0))))
	assert.True(t, IsSurjective(NewIdentity(Range(0))))
}

func TestEqual(t *testing.T) {
	a := MustVector(Range(3), Range(3), []int{1, 2, 3})
	assert.True(t, Equal(a, NewIdentity(Range(3))))
	assert.False(t, Equal(a, MustVector(Range(3), Range(3), []int{1, 3, 2})))
	assert.False(t, Equal(a, MustVector(Range(3), Range(4), []int{1, 2, 3})))
}
