package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	app := fiber.New()
	var got Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = FromQuery(c)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	return got
}

func TestFromQuery(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit, Offset: 0}, paramsFor(t, ""))
	assert.Equal(t, Params{Page: 3, Limit: 10, Offset: 20}, paramsFor(t, "?page=3&limit=10"))
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit, Offset: 0}, paramsFor(t, "?page=-2&limit=500"))
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit, Offset: 0}, paramsFor(t, "?page=abc&limit=0"))
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	empty := NewMeta(Params{Page: 1, Limit: 10}, 0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
