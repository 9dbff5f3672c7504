package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
)

func TestIndex_LookupBundledSnapshot(t *testing.T) {
	ix := NewIndex(zap.NewNop())

	legs := ix.Lookup(models.NewSubdivision("CA", "11"))
	require.Len(t, legs, 1)
	assert.Equal(t, "Pelosi", legs[0].LastName)
	assert.Equal(t, "Nancy Pelosi", legs[0].DisplayName())
	assert.Equal(t, "Democrat", legs[0].Party)
	// Quoted commas in the address column survive parsing.
	assert.Contains(t, legs[0].Address, "Washington, DC")

	// At-large seats index under district "0".
	vt := ix.Lookup(models.NewSubdivision("VT", "At-Large"))
	require.Len(t, vt, 1)
	assert.Equal(t, "Balint", vt[0].LastName)
	assert.Equal(t, "VT-At-Large", vt[0].Subdivision().Label())

	// Upper-chamber rows are never indexed: NY senators share no key
	// with NY house districts, and a state-wide key does not exist.
	assert.Empty(t, ix.Lookup(models.NewSubdivision("NY", "")))
}

func TestIndex_BuildsOnce(t *testing.T) {
	ix := NewIndex(zap.NewNop())
	first := ix.Size()
	assert.Equal(t, first, ix.Size())
	assert.Greater(t, first, 0)
}

func TestParseSnapshot_ReorderedColumns(t *testing.T) {
	csv := "state,phone,type,district,last_name,first_name\n" +
		"TX,202-225-0001,rep,7,Fletcher,Lizzie\n"
	byKey := parseSnapshot([]byte(csv), zap.NewNop())
	require.Len(t, byKey["TX-7"], 1)
	assert.Equal(t, "Fletcher", byKey["TX-7"][0].LastName)
	assert.Equal(t, "202-225-0001", byKey["TX-7"][0].Phone)
}

func TestParseSnapshot_MissingHeaderYieldsEmptyIndex(t *testing.T) {
	csv := "state,first_name,last_name\nTX,Lizzie,Fletcher\n"
	byKey := parseSnapshot([]byte(csv), zap.NewNop())
	assert.Empty(t, byKey)
}

func TestParseSnapshot_SkipsMalformedRows(t *testing.T) {
	csv := "type,state,district,last_name\n" +
		"rep,TX,7,Fletcher\n" +
		"rep,,7,\n" + // missing required fields
		"rep,NM,3,Leger Fernandez\n"
	byKey := parseSnapshot([]byte(csv), zap.NewNop())
	assert.Len(t, byKey, 2)
	assert.Empty(t, byKey["-7"])
}

func TestParseSnapshot_EmptyInput(t *testing.T) {
	assert.Empty(t, parseSnapshot(nil, zap.NewNop()))
}
