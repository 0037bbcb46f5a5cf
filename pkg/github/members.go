package github

import (
	"context"
	"iter"

	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/pagination"
	"github.com/saturnines/contrib-harvest/pkg/transport/graphql"
)

// Members lists every member of org in the order the API pages them.
func (c *Client) Members(ctx context.Context, org string) ([]Member, error) {
	b, pager := c.membersRequest(org)
	members, err := pagination.Walk(ctx, pager, c.fetchMembers(b))
	if err != nil {
		return nil, errors.WithMessage(err, "list members of "+org)
	}
	c.logger.Info("listed organization members", "org", org, "members", len(members), "pages", pager.Pages())
	return members, nil
}

// AllMembers is the lazy form of Members. Each range starts from the first page.
func (c *Client) AllMembers(ctx context.Context, org string) iter.Seq2[Member, error] {
	b, pager := c.membersRequest(org)
	return pagination.All(ctx, pager, c.fetchMembers(b))
}

func (c *Client) membersRequest(org string) (*graphql.Builder, *pagination.CursorPager) {
	b := c.builder(MembersQuery, map[string]interface{}{
		varOrg:   org,
		varFirst: c.pageSize,
	})
	// The pager writes the cursor straight into the builder's variables.
	return b, pagination.NewCursorPager(b.Variables, varAfter, c.maxPages)
}

func (c *Client) fetchMembers(b *graphql.Builder) pagination.FetchFunc[Member] {
	return func(ctx context.Context) (pagination.Page[Member], error) {
		var data membersData
		if err := c.gql.Do(ctx, b, &data); err != nil {
			return pagination.Page[Member]{}, err
		}
		return decodeMembersPage(&data)
	}
}

func decodeMembersPage(data *membersData) (pagination.Page[Member], error) {
	var page pagination.Page[Member]

	missing := func(path string) (pagination.Page[Member], error) {
		return page, errors.WrapError(&DecodeError{Query: "members", Path: path}, errors.ErrDecode, "decode members page")
	}

	org := data.Organization
	switch {
	case org == nil:
		return missing("organization")
	case org.MembersWithRole == nil:
		return missing("organization.membersWithRole")
	case org.MembersWithRole.Edges == nil:
		return missing("organization.membersWithRole.edges")
	case org.MembersWithRole.PageInfo == nil:
		return missing("organization.membersWithRole.pageInfo")
	case org.MembersWithRole.PageInfo.HasNextPage == nil:
		return missing("organization.membersWithRole.pageInfo.hasNextPage")
	}

	members, err := FlattenMembers(*org.MembersWithRole.Edges)
	if err != nil {
		return page, errors.WrapError(err, errors.ErrDecode, "decode members page")
	}

	page.Items = members
	info := org.MembersWithRole.PageInfo
	page.Info = pagination.PageInfo{HasNextPage: *info.HasNextPage, EndCursor: info.EndCursor}
	return page, nil
}
