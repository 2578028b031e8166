package pagination

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageBody struct {
	Count    int64    `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []string `json:"results"`
}

// servePage runs NewPage inside a fiber handler against a canned result set
func servePage(t *testing.T, target string, count int64, results []string) pageBody {
	t.Helper()

	app := fiber.New()
	app.Get("/api/v1/users", func(c *fiber.Ctx) error {
		params := GetParams(c)
		return c.JSON(NewPage(c, params, count, results))
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body pageBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestNewPageFirstOfMany(t *testing.T) {
	body := servePage(t, "/api/v1/users?page=1&page_size=2", 5, []string{"a", "b"})

	assert.Equal(t, int64(5), body.Count)
	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "/api/v1/users?")
	assert.Contains(t, *body.Next, "page=2")
	assert.Contains(t, *body.Next, "page_size=2")
	assert.Nil(t, body.Previous)
}

func TestNewPageMiddle(t *testing.T) {
	body := servePage(t, "/api/v1/users?page=2&page_size=2", 5, []string{"c", "d"})

	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "page=3")
	require.NotNil(t, body.Previous)
	assert.Contains(t, *body.Previous, "page=1")
}

func TestNewPageLast(t *testing.T) {
	body := servePage(t, "/api/v1/users?page=3&page_size=2", 5, []string{"e"})

	assert.Nil(t, body.Next)
	require.NotNil(t, body.Previous)
	assert.Contains(t, *body.Previous, "page=2")
}

func TestNewPagePreservesOtherParams(t *testing.T) {
	body := servePage(t, "/api/v1/users?page=1&page_size=2&search=jane&ordering=-created_at", 5, []string{"a", "b"})

	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "search=jane")
	assert.Contains(t, *body.Next, "ordering=-created_at")
}

func TestNewPageOutOfRange(t *testing.T) {
	// Past the last page: empty results, count intact, no next link.
	body := servePage(t, "/api/v1/users?page=9&page_size=20", 5, []string{})

	assert.Equal(t, int64(5), body.Count)
	assert.Nil(t, body.Next)
	require.NotNil(t, body.Previous)
	assert.Empty(t, body.Results)
}

func TestGetParamsDefaults(t *testing.T) {
	app := fiber.New()
	var got *Params
	app.Get("/x", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, DefaultPageSize, got.PageSize)
	assert.Equal(t, 0, got.Offset())
}
