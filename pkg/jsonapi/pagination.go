package jsonapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Pagination describes one offset-based page of a collection.
type Pagination struct {
	Limit    int    // page size
	Offset   int    // index of the first item
	Returned int    // items on this page
	BaseURL  string // collection URL used to build links
}

// NewPagination creates a Pagination for a page of returned items.
func NewPagination(limit, offset, returned int, baseURL string) *Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return &Pagination{Limit: limit, Offset: offset, Returned: returned, BaseURL: baseURL}
}

// HasPrev reports whether items precede this page.
func (p *Pagination) HasPrev() bool {
	return p.Offset > 0
}

// HasNext reports whether another page may follow. A full page is assumed
// to have a successor.
func (p *Pagination) HasNext() bool {
	return p.Returned >= p.Limit
}

// Links builds self, first, prev and next links.
func (p *Pagination) Links() *Links {
	links := &Links{
		Self:  p.url(p.Offset),
		First: p.url(0),
	}
	if p.HasPrev() {
		links.Prev = p.url(max(p.Offset-p.Limit, 0))
	}
	if p.HasNext() {
		links.Next = p.url(p.Offset + p.Limit)
	}
	return links
}

// Meta returns page metadata.
func (p *Pagination) Meta() Meta {
	return Meta{
		"limit":  p.Limit,
		"offset": p.Offset,
		"count":  p.Returned,
	}
}

func (p *Pagination) url(offset int) string {
	if p.BaseURL == "" {
		return ""
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return p.BaseURL
	}
	q := u.Query()
	q.Set("page[limit]", strconv.Itoa(p.Limit))
	q.Set("page[offset]", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	return u.String()
}

// Page size bounds used by ParsePage.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParamError reports an unusable query parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("query parameter %s: %s", e.Param, e.Reason)
}

// ParsePage reads page[limit] and page[offset], falling back to plain
// limit and offset. The limit is capped at MaxLimit.
func ParsePage(query url.Values) (limit, offset int, err error) {
	limit, err = intParam(query, DefaultLimit, "page[limit]", "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err = intParam(query, 0, "page[offset]", "offset")
	if err != nil {
		return 0, 0, err
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return min(limit, MaxLimit), offset, nil
}

func intParam(query url.Values, def int, names ...string) (int, error) {
	for _, name := range names {
		v := query.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, &ParamError{Param: name, Reason: "must be an integer"}
		}
		if n < 0 {
			return 0, &ParamError{Param: name, Reason: "must not be negative"}
		}
		return n, nil
	}
	return def, nil
}
