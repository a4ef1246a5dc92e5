package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	list := c.List()
	require.Len(t, list, 5)
	assert.Equal(t, "Empanada de Carne", list[0].Name)
	assert.Equal(t, "Aborrajado", list[4].Name)

	p, err := c.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "Salchipapa Clásica", p.Name)
	assert.True(t, decimal.RequireFromString("9.80").Equal(p.Price))
}

func TestGetNotFound(t *testing.T) {
	_, err := Default().Get(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsCopy(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].Name = "changed"

	p, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Empanada de Carne", p.Name)
}

func TestNewIgnoresDuplicateIDs(t *testing.T) {
	c := New(
		Product{ID: 7, Name: "first"},
		Product{ID: 7, Name: "second"},
	)
	require.Len(t, c.List(), 1)
	p, err := c.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "first", p.Name)
}

func TestProductJSON(t *testing.T) {
	p, err := Default().Get(1)
	require.NoError(t, err)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Empanada de Carne","price":3.5}`, string(b))
}
