package controller

import (
	"math"
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// PageResponse is the envelope of every paginated listing.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Paginator reads page/limit query parameters.
type Paginator struct {
	pageSize int
	maxLimit int
}

func NewPaginator(cfg config.PagingConfig) Paginator {
	p := Paginator{pageSize: cfg.PageSize, maxLimit: cfg.MaxLimit}
	if p.pageSize < 1 {
		p.pageSize = 6
	}
	if p.maxLimit < p.pageSize {
		p.maxLimit = 100
	}
	return p
}

type pageRequest struct {
	page  int
	limit int
}

func (r pageRequest) offset() int {
	return (r.page - 1) * r.limit
}

// parse validates page (>= 1) and limit (1..maxLimit). page*limit must fit
// in an int32 offset. On failure it writes a 400 and returns false.
func (p Paginator) parse(c *gin.Context) (pageRequest, bool) {
	req := pageRequest{page: 1, limit: p.pageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "page must be a positive integer")
			return req, false
		}
		req.page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "limit must be a positive integer")
			return req, false
		}
		if limit > p.maxLimit {
			limit = p.maxLimit
		}
		req.limit = limit
	}
	if req.page > math.MaxInt32/req.limit {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "page is out of range")
		return req, false
	}
	return req, true
}

// pageURL rebuilds the request URL pointing at another page.
func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := *c.Request.URL
	u.Scheme = scheme
	u.Host = c.Request.Host
	u.RawQuery = query.Encode()
	s := u.String()
	return &s
}

func respondPage[T any](c *gin.Context, req pageRequest, page *service.Page[T]) {
	resp := PageResponse[T]{
		Count:   page.Count,
		Results: page.Results,
	}
	if resp.Results == nil {
		resp.Results = []T{}
	}
	if int64(req.page*req.limit) < page.Count {
		resp.Next = pageURL(c, req.page+1)
	}
	if req.page > 1 {
		resp.Previous = pageURL(c, req.page-1)
	}
	c.JSON(http.StatusOK, resp)
}
