package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/schema"
	"github.com/roach88/finrel/internal/testutil"
)

func TestValidateCompleteInstance(t *testing.T) {
	errs := Validate(testutil.Cycle(3))
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestValidateIncompleteInstance(t *testing.T) {
	st := acset.New(testutil.GraphSchema())
	named := st.WithNames()
	_, err := named.AddParts("V", 2)
	require.NoError(t, err)
	_, err = named.AddParts("E", 1)
	require.NoError(t, err)

	errs := Validate(st)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, ErrInstanceIncomplete, e.Code)
	}
	assert.True(t, HasErrors(errs))
}

func TestValidateEmptyInstanceIsWarning(t *testing.T) {
	errs := Validate(acset.New(testutil.GraphSchema()))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInstanceEmpty, errs[0].Code)
	assert.True(t, errs[0].Warning)
	assert.False(t, HasErrors(errs))
}

func TestValidateIsolatedOb(t *testing.T) {
	s := schema.NewBuilder("S").
		AddOb("A", "B", "C").
		AddHom("f", "A", "B").
		MustBuild()

	errs := Validate(s)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSchemaIsolatedOb, errs[0].Code)
	assert.Equal(t, "ob.C", errs[0].Field)
	assert.True(t, errs[0].Warning)

	assert.Empty(t, Validate(testutil.DynamicalSchema()))
}

func TestValidateSpecsPrefixesFields(t *testing.T) {
	specs := NewSpecs()
	specs.Instances["Empty"] = acset.New(testutil.GraphSchema())
	specs.Instances["Tri"] = testutil.Cycle(3)

	errs := Validate(specs)
	require.Len(t, errs, 1)
	assert.Equal(t, "instance.Empty.parts", errs[0].Field)
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("not a declaration")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedType, errs[0].Code)
	assert.Equal(t, "[E100] type: unsupported type: string", errs[0].Error())
}
