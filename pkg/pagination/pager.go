package pagination

// PageInfo is the GraphQL Relay pageInfo object.
type PageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// State of a pager.
type State int

const (
	MorePages State = iota
	Done
)

func (s State) String() string {
	switch s {
	case MorePages:
		return "MORE_PAGES"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Pager drives one pagination strategy.
type Pager interface {
	// HasNext reports whether another request is due.
	HasNext() bool
	// Update consumes the pageInfo of the page just fetched.
	Update(info PageInfo) error
	// Reset returns the pager to its initial state.
	Reset()
}
