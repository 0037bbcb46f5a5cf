package pagination

import (
	"github.com/saturnines/contrib-harvest/pkg/errors"
)

// CursorPager handles Relay cursor pagination. It owns no request: the cursor
// is written into Variables, the same map the request builder marshals.
type CursorPager struct {
	Variables map[string]interface{}
	CursorKey string
	MaxPages  int // zero means unbounded

	state  State
	pages  int
	cursor *string
}

// NewCursorPager builds a CursorPager starting in MorePages with no cursor.
func NewCursorPager(variables map[string]interface{}, cursorKey string, maxPages int) *CursorPager {
	if variables == nil {
		variables = make(map[string]interface{})
	}
	p := &CursorPager{
		Variables: variables,
		CursorKey: cursorKey,
		MaxPages:  maxPages,
	}
	p.Reset()
	return p
}

// HasNext reports whether the pager is still in MorePages.
func (p *CursorPager) HasNext() bool {
	return p.state == MorePages
}

// State returns the current state.
func (p *CursorPager) State() State {
	return p.state
}

// Pages returns how many pages have been consumed since the last Reset.
func (p *CursorPager) Pages() int {
	return p.pages
}

// Cursor returns the cursor the next request will carry, nil before the first page.
func (p *CursorPager) Cursor() *string {
	return p.cursor
}

// Update stores endCursor for the next request and moves to Done when
// hasNextPage is false. It refuses to continue past MaxPages or when the API
// claims more pages without moving the cursor forward.
func (p *CursorPager) Update(info PageInfo) error {
	if p.state == Done {
		return errors.Newf(errors.ErrPagination, "update after pagination finished")
	}
	p.pages++

	if !info.HasNextPage {
		p.state = Done
		return nil
	}

	if info.EndCursor == nil || *info.EndCursor == "" {
		p.state = Done
		return errors.Newf(errors.ErrPagination, "page %d reports hasNextPage without an endCursor", p.pages)
	}
	if p.cursor != nil && *p.cursor == *info.EndCursor {
		p.state = Done
		return errors.Newf(errors.ErrPagination, "cursor %q did not advance after page %d", *info.EndCursor, p.pages)
	}
	if p.MaxPages > 0 && p.pages >= p.MaxPages {
		p.state = Done
		return errors.Newf(errors.ErrPagination, "more pages remain after the limit of %d", p.MaxPages)
	}

	cursor := *info.EndCursor
	p.cursor = &cursor
	p.Variables[p.CursorKey] = cursor
	return nil
}

// Reset resets pagination to start from the beginning.
func (p *CursorPager) Reset() {
	p.state = MorePages
	p.pages = 0
	p.cursor = nil
	p.Variables[p.CursorKey] = nil
}
