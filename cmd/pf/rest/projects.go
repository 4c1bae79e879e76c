package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	apiprj "github.com/periflow/cli/pkg/api/types/projects"
)

func (c *client) CreateProject(ctx context.Context, orgId uuid.UUID, name string) (apiprj.Project, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPost, c.authpath("pf_group", orgId.String(), "pf_project"),
		map[string]string{"name": name},
	)
	if err != nil {
		return apiprj.Project{}, err
	}
	defer resp.Body.Close()

	prj := apiprj.Project{}
	if err := unmarshalJsonResponse(resp, &prj, MessageFor{
		Status4xx: "failed to create the project",
		Status5xx: "server error at creating the project",
	}); err != nil {
		return apiprj.Project{}, err
	}
	return prj, nil
}

// ListProjects walks cursor pages until the server says there is no more.
func (c *client) ListProjects(ctx context.Context, orgId uuid.UUID) ([]apiprj.Project, error) {
	projects := []apiprj.Project{}
	cursor := ""

	for {
		u := c.authpath("pf_group", orgId.String(), "pf_project")
		if cursor != "" {
			u += "?" + url.Values{"cursor": {cursor}}.Encode()
		}

		resp, err := c.do(ctx, http.MethodGet, u, "", nil)
		if err != nil {
			return nil, err
		}

		page := apiprj.Page{}
		err = unmarshalJsonResponse(resp, &page, MessageFor{
			Status4xx: "failed to list projects",
			Status5xx: "server error at listing projects",
		})
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		projects = append(projects, page.Results...)
		if page.NextCursor == nil || *page.NextCursor == "" {
			return projects, nil
		}
		cursor = *page.NextCursor
	}
}

func (c *client) GetProject(ctx context.Context, projectId uuid.UUID) (apiprj.Project, error) {
	resp, err := c.do(ctx, http.MethodGet, c.authpath("pf_project", projectId.String()), "", nil)
	if err != nil {
		return apiprj.Project{}, err
	}
	defer resp.Body.Close()

	prj := apiprj.Project{}
	if err := unmarshalJsonResponse(resp, &prj, MessageFor{
		Status4xx: "failed to fetch the project",
		Status5xx: "server error at fetching the project",
	}); err != nil {
		return apiprj.Project{}, err
	}
	return prj, nil
}

func (c *client) ListProjectMembers(ctx context.Context, projectId uuid.UUID) ([]apiprj.Member, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.authpath("pf_project", projectId.String(), "pf_user"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page := struct {
		Results []apiprj.Member `json:"results"`
	}{}
	if err := unmarshalJsonResponse(resp, &page, MessageFor{
		Status4xx: "failed to list members of the project",
		Status5xx: "server error at listing members of the project",
	}); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *client) AddProjectMember(ctx context.Context, projectId uuid.UUID, userId uuid.UUID) error {
	resp, err := c.do(
		ctx, http.MethodPost,
		c.authpath("pf_project", projectId.String(), "pf_user", userId.String()),
		"", nil,
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to add the user into the project",
		Status5xx: "server error at adding the user into the project",
	})
}

func (c *client) SetProjectAccessLevel(ctx context.Context, projectId uuid.UUID, userId uuid.UUID, accessLevel string) error {
	resp, err := c.doJSON(
		ctx, http.MethodPatch,
		c.authpath("pf_project", projectId.String(), "pf_user", userId.String()),
		map[string]string{"access_level": accessLevel},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to change the access level",
		Status5xx: "server error at changing the access level",
	})
}
