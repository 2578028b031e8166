package pagination

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// DefaultPageSize is the default number of items per page
const DefaultPageSize = 20

// MaxPageSize is the maximum number of items per page
const MaxPageSize = 100

// Params represents pagination parameters
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the record offset for the current page
func (p *Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// GetParams extracts pagination parameters from the request.
// Page defaults to 1, page_size to DefaultPageSize capped at MaxPageSize.
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", strconv.Itoa(DefaultPageSize)))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &Params{
		Page:     page,
		PageSize: pageSize,
	}
}

// Page represents a paginated response body
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPage builds the pagination envelope with absolute next/previous links
// derived from the request URL.
func NewPage(c *fiber.Ctx, params *Params, count int64, results interface{}) *Page {
	page := &Page{
		Count:   count,
		Results: results,
	}

	if int64(params.Offset()+params.PageSize) < count {
		page.Next = pageURL(c, params, params.Page+1)
	}
	if params.Page > 1 {
		page.Previous = pageURL(c, params, params.Page-1)
	}

	return page
}

// pageURL rebuilds the request URL with the page parameter replaced
func pageURL(c *fiber.Ctx, params *Params, page int) *string {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		values = url.Values{}
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("page_size", strconv.Itoa(params.PageSize))

	u := c.BaseURL() + c.Path() + "?" + values.Encode()
	return &u
}
