package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 1, Limit: 10}, 25)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPages)
	assert.EqualValues(t, 25, meta.TotalItems)
	assert.Equal(t, 10, meta.ItemsPerPage)

	meta = GetMeta(&Params{Page: 2, Limit: 10}, 20)
	assert.Equal(t, 2, meta.TotalPages)

	meta = GetMeta(&Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b"}
	resp := NewResponse(data, &Params{Page: 1, Limit: 2}, 5)
	assert.Equal(t, data, resp.Data)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}
