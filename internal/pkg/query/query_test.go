package query

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpec = Spec{
	SearchFields: []string{"name"},
	OrderFields: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	IntFilters: map[string]string{
		"department": "department_id",
	},
	BoolFilters: map[string]string{
		"featured": "featured",
	},
	DefaultOrder: "created_at DESC",
}

func TestOrderClauseDefault(t *testing.T) {
	clause, err := testSpec.OrderClause("")
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC, id ASC", clause)
}

func TestOrderClauseDefaultWithoutSpecDefault(t *testing.T) {
	spec := Spec{OrderFields: map[string]string{"name": "name"}}
	clause, err := spec.OrderClause("")
	require.NoError(t, err)
	assert.Equal(t, "id ASC", clause)
}

func TestOrderClauseAscending(t *testing.T) {
	clause, err := testSpec.OrderClause("name")
	require.NoError(t, err)
	assert.Equal(t, "name ASC, id ASC", clause)
}

func TestOrderClauseDescending(t *testing.T) {
	clause, err := testSpec.OrderClause("-created_at")
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC, id ASC", clause)
}

func TestOrderClauseUnknownField(t *testing.T) {
	_, err := testSpec.OrderClause("password")
	assert.ErrorIs(t, err, ErrUnknownOrderField)

	_, err = testSpec.OrderClause("-password")
	assert.ErrorIs(t, err, ErrUnknownOrderField)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

// parseVia runs Parse inside a fiber handler and returns the outcome
func parseVia(t *testing.T, target string) (*Params, int) {
	t.Helper()

	app := fiber.New()
	var parsed *Params
	app.Get("/items", func(c *fiber.Ctx) error {
		p, err := Parse(c, testSpec)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		parsed = p
		return c.JSON(p)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return parsed, resp.StatusCode
}

func TestParseDefaults(t *testing.T) {
	params, status := parseVia(t, "/items")
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
	assert.Empty(t, params.Search)
	assert.Empty(t, params.Filters)
}

func TestParseCapturesWhitelistedFilters(t *testing.T) {
	params, status := parseVia(t, "/items?search=go&department=2&featured=true&role=admin&page=3&page_size=10")
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, "go", params.Search)
	assert.Equal(t, "2", params.Filters["department"])
	assert.Equal(t, "true", params.Filters["featured"])
	_, captured := params.Filters["role"]
	assert.False(t, captured, "unknown parameters are ignored")
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.PageSize)
	assert.Equal(t, 20, params.Offset())
}

func TestParseClampsPageSize(t *testing.T) {
	params, status := parseVia(t, "/items?page_size=5000")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 100, params.PageSize)

	params, status = parseVia(t, "/items?page=0&page_size=-1")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
}

func TestParseRejectsUnknownOrdering(t *testing.T) {
	_, status := parseVia(t, "/items?ordering=password")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestParseRejectsInvalidFilterValues(t *testing.T) {
	// A foreign-key filter must be numeric, not silently coerced.
	_, status := parseVia(t, "/items?department=abc")
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = parseVia(t, "/items?department=-1")
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = parseVia(t, "/items?featured=yes")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
