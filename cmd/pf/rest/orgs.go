package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
)

func (c *client) CreateOrganization(ctx context.Context, name string) (apiorgs.Organization, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPost, c.authpath("pf_group"),
		map[string]string{"name": name, "hosting_type": "hosted"},
	)
	if err != nil {
		return apiorgs.Organization{}, err
	}
	defer resp.Body.Close()

	org := apiorgs.Organization{}
	if err := unmarshalJsonResponse(resp, &org, MessageFor{
		Status4xx: "failed to create the organization",
		Status5xx: "server error at creating the organization",
	}); err != nil {
		return apiorgs.Organization{}, err
	}
	return org, nil
}

func (c *client) GetOrganization(ctx context.Context, orgId uuid.UUID) (apiorgs.Organization, error) {
	resp, err := c.do(ctx, http.MethodGet, c.authpath("pf_group", orgId.String()), "", nil)
	if err != nil {
		return apiorgs.Organization{}, err
	}
	defer resp.Body.Close()

	org := apiorgs.Organization{}
	if err := unmarshalJsonResponse(resp, &org, MessageFor{
		Status4xx: "failed to fetch the organization",
		Status5xx: "server error at fetching the organization",
	}); err != nil {
		return apiorgs.Organization{}, err
	}
	return org, nil
}

func (c *client) ListMyOrganizations(ctx context.Context) ([]apiorgs.Organization, error) {
	me, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(
		ctx, http.MethodGet,
		c.authpath("pf_user", me.ID.String(), "pf_group"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page := struct {
		Results []apiorgs.Organization `json:"results"`
	}{}
	if err := unmarshalJsonResponse(resp, &page, MessageFor{
		Status4xx: "failed to list organizations",
		Status5xx: "server error at listing organizations",
	}); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *client) InviteToOrganization(ctx context.Context, orgId uuid.UUID, email string) error {
	resp, err := c.doJSON(
		ctx, http.MethodPost, c.authpath("pf_group", orgId.String(), "invite"),
		map[string]string{"email": email},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to send the invitation",
		Status5xx: "server error at sending the invitation",
	})
}

func (c *client) AcceptInvite(ctx context.Context, token string, key string) error {
	resp, err := c.bareJSON(
		ctx, http.MethodPost, c.authpath("pf_group", "invite", "confirm"),
		map[string]string{"token": token, "key": key},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to accept the invitation. check the code in your email",
		Status5xx: "server error at accepting the invitation",
	})
}

func (c *client) ListOrganizationMembers(ctx context.Context, orgId uuid.UUID) ([]apiorgs.Member, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.authpath("pf_group", orgId.String(), "pf_user"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page := struct {
		Results []apiorgs.Member `json:"results"`
	}{}
	if err := unmarshalJsonResponse(resp, &page, MessageFor{
		Status4xx: "failed to list members of the organization",
		Status5xx: "server error at listing members of the organization",
	}); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *client) SetOrganizationPrivilege(ctx context.Context, orgId uuid.UUID, userId uuid.UUID, privilegeLevel string) error {
	resp, err := c.doJSON(
		ctx, http.MethodPatch,
		c.authpath("pf_group", orgId.String(), "pf_user", userId.String()),
		map[string]string{"privilege_level": privilegeLevel},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to change the privilege level",
		Status5xx: "server error at changing the privilege level",
	})
}
