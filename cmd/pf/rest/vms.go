package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	apivms "github.com/periflow/cli/pkg/api/types/vms"
)

func (c *client) ListVMConfigs(ctx context.Context, orgId uuid.UUID) ([]apivms.VMConfig, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.apipath("group", orgId.String(), "vm_config"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	configs := []apivms.VMConfig{}
	if err := unmarshalJsonResponse(resp, &configs, MessageFor{
		Status4xx: "failed to list VM configurations",
		Status5xx: "server error at listing VM configurations",
	}); err != nil {
		return nil, err
	}
	return configs, nil
}

func (c *client) ListVMQuotas(ctx context.Context, projectId uuid.UUID) ([]apivms.Quota, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.apipath("project", projectId.String(), "vm_quota"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	quotas := []apivms.Quota{}
	if err := unmarshalJsonResponse(resp, &quotas, MessageFor{
		Status4xx: "failed to list VM quotas",
		Status5xx: "server error at listing VM quotas",
	}); err != nil {
		return nil, err
	}
	return quotas, nil
}
