// Package resolve turns user-facing names into server-side ids,
// and reads the working context with helpful errors.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/periflow/cli/cmd/pf/config/session"
	"github.com/periflow/cli/cmd/pf/rest"
	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
	apidata "github.com/periflow/cli/pkg/api/types/datasets"
	apiorgs "github.com/periflow/cli/pkg/api/types/orgs"
	apiprj "github.com/periflow/cli/pkg/api/types/projects"
	"github.com/periflow/cli/pkg/utils"
)

// WorkingOrganization returns the organization chosen by `pf org switch`.
func WorkingOrganization(s *session.Store) (uuid.UUID, error) {
	orgId, err := s.OrganizationID()
	if err != nil {
		if errors.Is(err, session.ErrNotSet) {
			return uuid.Nil, errors.New("no organization is chosen. try `pf org switch`")
		}
		return uuid.Nil, err
	}
	return orgId, nil
}

// WorkingProject returns the project chosen by `pf project switch`.
func WorkingProject(s *session.Store) (uuid.UUID, error) {
	prjId, err := s.ProjectID()
	if err != nil {
		if errors.Is(err, session.ErrNotSet) {
			return uuid.Nil, errors.New("no project is chosen. try `pf project switch`")
		}
		return uuid.Nil, err
	}
	return prjId, nil
}

// OrganizationByName finds one of the current user's organizations.
func OrganizationByName(ctx context.Context, c rest.Client, name string) (apiorgs.Organization, error) {
	orgs, err := c.ListMyOrganizations(ctx)
	if err != nil {
		return apiorgs.Organization{}, err
	}
	org, ok := utils.First(orgs, func(o apiorgs.Organization) bool { return o.Name == name })
	if !ok {
		return apiorgs.Organization{}, fmt.Errorf("organization (%s) is not found", name)
	}
	return org, nil
}

// ProjectByName finds a project of an organization.
func ProjectByName(ctx context.Context, c rest.Client, orgId uuid.UUID, name string) (apiprj.Project, error) {
	projects, err := c.ListProjects(ctx, orgId)
	if err != nil {
		return apiprj.Project{}, err
	}
	prj, ok := utils.First(projects, func(p apiprj.Project) bool { return p.Name == name })
	if !ok {
		return apiprj.Project{}, fmt.Errorf("project (%s) is not found", name)
	}
	return prj, nil
}

// DatasetByName finds a dataset of a project.
func DatasetByName(ctx context.Context, c rest.Client, projectId uuid.UUID, name string) (apidata.Dataset, error) {
	datasets, err := c.ListDatasets(ctx, projectId)
	if err != nil {
		return apidata.Dataset{}, err
	}
	ds, ok := utils.First(datasets, func(d apidata.Dataset) bool { return d.Name == name })
	if !ok {
		return apidata.Dataset{}, fmt.Errorf("dataset (%s) is not found", name)
	}
	return ds, nil
}

// CheckpointByName finds a checkpoint of a project by its name.
func CheckpointByName(ctx context.Context, c rest.Client, orgId uuid.UUID, projectId uuid.UUID, name string) (apickpt.Checkpoint, error) {
	checkpoints, err := c.ListCheckpoints(ctx, orgId, projectId, "")
	if err != nil {
		return apickpt.Checkpoint{}, err
	}
	ckpt, ok := utils.First(checkpoints, func(k apickpt.Checkpoint) bool { return k.Name == name })
	if !ok {
		return apickpt.Checkpoint{}, fmt.Errorf("checkpoint (%s) is not found", name)
	}
	return ckpt, nil
}

// OrganizationMemberByUsername finds a member of an organization.
func OrganizationMemberByUsername(ctx context.Context, c rest.Client, orgId uuid.UUID, username string) (apiorgs.Member, error) {
	users, err := c.ListOrganizationMembers(ctx, orgId)
	if err != nil {
		return apiorgs.Member{}, err
	}
	user, ok := utils.First(users, func(m apiorgs.Member) bool { return m.Username == username })
	if !ok {
		return apiorgs.Member{}, fmt.Errorf("user (%s) is not a member of the organization", username)
	}
	return user, nil
}
