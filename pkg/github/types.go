package github

import (
	"fmt"
	"time"
)

// Member is one organization member.
type Member struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// ContributionDay is one row of the export table.
type ContributionDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
	User              string `json:"user"`
}

// Window is a contribution query range.
type Window struct {
	Since time.Time
	Until time.Time
}

// YearWindow covers one calendar year in UTC, last second inclusive.
func YearWindow(year int) Window {
	return Window{
		Since: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

func (w Window) String() string {
	return w.Since.Format(time.RFC3339) + "/" + w.Until.Format(time.RFC3339)
}

// DecodeError names the first required key missing from a response.
type DecodeError struct {
	Query string
	Path  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s response: missing %s", e.Query, e.Path)
}

// Response schemas. Pointer fields are required keys: a nil pointer after
// decoding means the key was absent or null.

type membersData struct {
	Organization *struct {
		MembersWithRole *struct {
			Edges    *[]memberEdge `json:"edges"`
			PageInfo *pageInfo     `json:"pageInfo"`
		} `json:"membersWithRole"`
	} `json:"organization"`
}

// pageInfo is the wire form of pagination.PageInfo. endCursor may be null.
type pageInfo struct {
	HasNextPage *bool   `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type memberEdge struct {
	Node *struct {
		Login *string `json:"login"`
		Name  *string `json:"name"`
	} `json:"node"`
}

type contributionsData struct {
	User *struct {
		Login                   string `json:"login"`
		ContributionsCollection *struct {
			ContributionCalendar *struct {
				TotalContributions int         `json:"totalContributions"`
				Weeks              *[]weekData `json:"weeks"`
			} `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

type weekData struct {
	ContributionDays *[]dayData `json:"contributionDays"`
}

type dayData struct {
	Date              *string `json:"date"`
	ContributionCount *int    `json:"contributionCount"`
}

// Week is one column of the contribution calendar.
type Week struct {
	ContributionDays []Day `json:"contributionDays"`
}

// Day is one calendar cell as returned by the API.
type Day struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
}
