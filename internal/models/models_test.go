package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsCountJSON(t *testing.T) {
	data, err := json.Marshal(Collection{Name: "c", ItemsCount: ExactCount(42)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"itemsCount":42`)

	data, err = json.Marshal(Collection{Name: "c", ItemsCount: ParseItemsCount("1000+")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"itemsCount":"1000+"`)

	var c Collection
	require.NoError(t, json.Unmarshal([]byte(`{"itemsCount":"17"}`), &c))
	n, ok := c.ItemsCount.Exact()
	assert.True(t, ok)
	assert.Equal(t, 17, n)

	require.NoError(t, json.Unmarshal([]byte(`{"itemsCount":"1000+"}`), &c))
	_, ok = c.ItemsCount.Exact()
	assert.False(t, ok)
	assert.Equal(t, "1000+", c.ItemsCount.String())
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	require.NotNil(t, StringPtr("x"))
	assert.Equal(t, "x", *StringPtr("x"))
}
