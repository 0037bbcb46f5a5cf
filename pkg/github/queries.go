package github

// MembersQuery pages through an organization's members. $after is null on the
// first page and the previous endCursor afterwards.
const MembersQuery = `query ($org: String!, $after: String, $first: Int!) {
  organization(login: $org) {
    membersWithRole(first: $first, after: $after) {
      edges {
        node {
          login
          name
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

// ContributionsQuery fetches one user's contribution calendar between two
// ISO-8601 instants. GitHub caps the window at one year.
const ContributionsQuery = `query ($user: String!, $since: DateTime!, $until: DateTime!) {
  user(login: $user) {
    login
    contributionsCollection(from: $since, to: $until) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

// Variable names shared by the queries above.
const (
	varOrg   = "org"
	varAfter = "after"
	varFirst = "first"
	varUser  = "user"
	varSince = "since"
	varUntil = "until"
)
