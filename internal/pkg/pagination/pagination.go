package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 10

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// GetParams extracts pagination parameters from request
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := (page - 1) * limit

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		CurrentPage:  params.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
	}
}

// Response represents a paginated response body
type Response struct {
	Data       interface{} `json:"data"`
	Pagination *Meta       `json:"pagination"`
}

// NewResponse creates a new paginated response
func NewResponse(data interface{}, params *Params, total int64) *Response {
	return &Response{
		Data:       data,
		Pagination: GetMeta(params, total),
	}
}
