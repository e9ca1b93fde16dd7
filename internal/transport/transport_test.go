package transport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	bcn := table.Lookup("BCN")
	require.NotNil(t, bcn)
	assert.Equal(t, "BCN", bcn.AirportCode)
	assert.Equal(t, "Barcelona El Prat", bcn.AirportName)
	require.Len(t, bcn.Options, 4)
	assert.Equal(t, "Aerobus", bcn.Options[0].Type)

	assert.NotNil(t, table.Lookup("lis"))
	assert.Nil(t, table.Lookup("XXX"))
	assert.Nil(t, table.Lookup("ROM"))
}

func TestDefault_EveryEntryHasOptions(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, table.Codes())

	for _, code := range table.Codes() {
		info := table.Lookup(code)
		require.NotNil(t, info, code)
		assert.NotEmpty(t, info.AirportName, code)
		assert.NotEmpty(t, info.Options, code)
		for _, opt := range info.Options {
			assert.NotEmpty(t, opt.Type, code)
			assert.NotEmpty(t, opt.Price, code)
			assert.NotEmpty(t, opt.Duration, code)
		}
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	first := table.Lookup("WAW")
	first.Options[0].Type = "changed"
	first.AirportName = "changed"

	second := table.Lookup("WAW")
	assert.NotEqual(t, "changed", second.Options[0].Type)
	assert.NotEqual(t, "changed", second.AirportName)
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transport.json")
	content := `[{"airportCode":"xyz","airportName":"Xyz Intl","options":[{"type":"Bus","price":"1 EUR","duration":"10 min"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := Load(path)
	require.NoError(t, err)

	info := table.Lookup("XYZ")
	require.NotNil(t, info)
	assert.Equal(t, "XYZ", info.AirportCode)
	assert.Nil(t, table.Lookup("BCN"))
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transport.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
