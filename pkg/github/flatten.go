package github

const (
	edgesPath = "organization.membersWithRole.edges"
	weeksPath = "user.contributionsCollection.contributionCalendar.weeks"
)

// FlattenMembers unwraps edge → node, keeping edge order.
func FlattenMembers(edges []memberEdge) ([]Member, error) {
	members := make([]Member, 0, len(edges))
	for i, edge := range edges {
		node := fmtIndex(edgesPath, i) + ".node"
		if edge.Node == nil {
			return nil, &DecodeError{Query: "members", Path: node}
		}
		if edge.Node.Login == nil {
			return nil, &DecodeError{Query: "members", Path: node + ".login"}
		}
		m := Member{Login: *edge.Node.Login}
		if edge.Node.Name != nil {
			m.Name = *edge.Node.Name
		}
		members = append(members, m)
	}
	return members, nil
}

// FlattenCalendar concatenates every week's days, in week order, and tags each
// row with login.
func FlattenCalendar(login string, weeks []Week) []ContributionDay {
	n := 0
	for _, w := range weeks {
		n += len(w.ContributionDays)
	}

	rows := make([]ContributionDay, 0, n)
	for _, w := range weeks {
		for _, d := range w.ContributionDays {
			rows = append(rows, ContributionDay{
				Date:              d.Date,
				ContributionCount: d.ContributionCount,
				User:              login,
			})
		}
	}
	return rows
}

// calendarWeeks checks every required day key and returns the calendar as
// plain Weeks.
func calendarWeeks(raw []weekData) ([]Week, error) {
	weeks := make([]Week, len(raw))
	for i, w := range raw {
		week := fmtIndex(weeksPath, i)
		if w.ContributionDays == nil {
			return nil, &DecodeError{Query: "contributions", Path: week + ".contributionDays"}
		}
		days := make([]Day, len(*w.ContributionDays))
		for j, d := range *w.ContributionDays {
			day := fmtIndex(week+".contributionDays", j)
			switch {
			case d.Date == nil:
				return nil, &DecodeError{Query: "contributions", Path: day + ".date"}
			case d.ContributionCount == nil:
				return nil, &DecodeError{Query: "contributions", Path: day + ".contributionCount"}
			}
			days[j] = Day{Date: *d.Date, ContributionCount: *d.ContributionCount}
		}
		weeks[i] = Week{ContributionDays: days}
	}
	return weeks, nil
}
