package github

import (
	"context"
	"time"

	"github.com/saturnines/contrib-harvest/pkg/errors"
)

// Contributions fetches login's calendar for w and flattens it to one row per
// day. Rows are tagged with the login that was queried.
func (c *Client) Contributions(ctx context.Context, login string, w Window) ([]ContributionDay, error) {
	b := c.builder(ContributionsQuery, map[string]interface{}{
		varUser:  login,
		varSince: w.Since.UTC().Format(time.RFC3339),
		varUntil: w.Until.UTC().Format(time.RFC3339),
	})

	var data contributionsData
	if err := c.gql.Do(ctx, b, &data); err != nil {
		return nil, err
	}

	weeks, err := decodeCalendar(&data)
	if err != nil {
		return nil, err
	}

	rows := FlattenCalendar(login, weeks)
	c.logger.Debug("fetched contribution calendar", "user", login, "window", w.String(), "days", len(rows))
	return rows, nil
}

func decodeCalendar(data *contributionsData) ([]Week, error) {
	missing := func(path string) ([]Week, error) {
		return nil, errors.WrapError(&DecodeError{Query: "contributions", Path: path}, errors.ErrDecode, "decode contribution calendar")
	}

	user := data.User
	switch {
	case user == nil:
		return missing("user")
	case user.ContributionsCollection == nil:
		return missing("user.contributionsCollection")
	case user.ContributionsCollection.ContributionCalendar == nil:
		return missing("user.contributionsCollection.contributionCalendar")
	case user.ContributionsCollection.ContributionCalendar.Weeks == nil:
		return missing(weeksPath)
	}

	weeks, err := calendarWeeks(*user.ContributionsCollection.ContributionCalendar.Weeks)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrDecode, "decode contribution calendar")
	}
	return weeks, nil
}
