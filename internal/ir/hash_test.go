package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashDeterminism(t *testing.T) {
	obj := IRObject{"parts": IRObject{"V": IRInt(2)}, "hom": IRObject{"src": IntArray([]int{1})}}

	h1, err := ContentHash(DomainStructure, obj)
	require.NoError(t, err)
	h2, err := ContentHash(DomainStructure, obj)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestContentHashDomainSeparation(t *testing.T) {
	obj := IRObject{"values": IntArray([]int{1, 2})}

	assert.NotEqual(t,
		MustContentHash(DomainStructure, obj),
		MustContentHash(DomainFunction, obj))
}

func TestContentHashChangesWithInput(t *testing.T) {
	a := IRObject{"values": IntArray([]int{1, 2})}
	b := IRObject{"values": IntArray([]int{2, 1})}

	assert.NotEqual(t, MustContentHash(DomainFunction, a), MustContentHash(DomainFunction, b))
}

func TestContentHashRejectsNull(t *testing.T) {
	_, err := ContentHash(DomainFunction, IRObject{"x": IRNull{}})
	assert.Error(t, err)
	assert.Panics(t, func() { MustContentHash(DomainFunction, IRObject{"x": IRNull{}}) })
}
