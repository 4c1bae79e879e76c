package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	apickpt "github.com/periflow/cli/pkg/api/types/checkpoints"
)

func (c *client) ListCheckpoints(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, category string) ([]apickpt.Checkpoint, error) {
	u := c.apipath("orgs", orgId.String(), "prjs", projectId.String(), "models")
	if category != "" {
		u += "?" + url.Values{"category": {category}}.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, u, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page := apickpt.Page{}
	if err := unmarshalJsonResponse(resp, &page, MessageFor{
		Status4xx: "failed to list checkpoints",
		Status5xx: "server error at listing checkpoints",
	}); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *client) GetCheckpoint(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("models", checkpointId.String()), "", nil)
	if err != nil {
		return apickpt.Checkpoint{}, err
	}
	defer resp.Body.Close()

	ckpt := apickpt.Checkpoint{}
	if err := unmarshalJsonResponse(resp, &ckpt, MessageFor{
		Status4xx: "failed to fetch the checkpoint",
		Status5xx: "server error at fetching the checkpoint",
	}); err != nil {
		return apickpt.Checkpoint{}, err
	}
	return ckpt, nil
}

func (c *client) CreateCheckpoint(ctx context.Context, orgId uuid.UUID, projectId uuid.UUID, spec apickpt.Spec) (apickpt.Checkpoint, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPost,
		c.apipath("orgs", orgId.String(), "prjs", projectId.String(), "models"),
		spec,
	)
	if err != nil {
		return apickpt.Checkpoint{}, err
	}
	defer resp.Body.Close()

	ckpt := apickpt.Checkpoint{}
	if err := unmarshalJsonResponse(resp, &ckpt, MessageFor{
		Status4xx: "failed to create the checkpoint",
		Status5xx: "server error at creating the checkpoint",
	}); err != nil {
		return apickpt.Checkpoint{}, err
	}
	return ckpt, nil
}

func (c *client) DeleteCheckpoint(ctx context.Context, checkpointId uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, c.apipath("models", checkpointId.String()), "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to delete the checkpoint",
		Status5xx: "server error at deleting the checkpoint",
	})
}

func (c *client) RestoreCheckpoint(ctx context.Context, checkpointId uuid.UUID) (apickpt.Checkpoint, error) {
	resp, err := c.do(
		ctx, http.MethodPost, c.apipath("models", checkpointId.String(), "restore"), "", nil,
	)
	if err != nil {
		return apickpt.Checkpoint{}, err
	}
	defer resp.Body.Close()

	ckpt := apickpt.Checkpoint{}
	if err := unmarshalJsonResponse(resp, &ckpt, MessageFor{
		Status4xx: "failed to restore the checkpoint",
		Status5xx: "server error at restoring the checkpoint",
	}); err != nil {
		return apickpt.Checkpoint{}, err
	}
	return ckpt, nil
}

func (c *client) UpdateCheckpointFiles(ctx context.Context, formId uuid.UUID, files []apickpt.File) (apickpt.Checkpoint, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPatch, c.apipath("model_forms", formId.String()),
		map[string]any{"files": files},
	)
	if err != nil {
		return apickpt.Checkpoint{}, err
	}
	defer resp.Body.Close()

	ckpt := apickpt.Checkpoint{}
	if err := unmarshalJsonResponse(resp, &ckpt, MessageFor{
		Status4xx: "failed to update files of the checkpoint",
		Status5xx: "server error at updating files of the checkpoint",
	}); err != nil {
		return apickpt.Checkpoint{}, err
	}
	return ckpt, nil
}

func (c *client) GetCheckpointDownloadURLs(ctx context.Context, formId uuid.UUID) ([]apickpt.File, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.apipath("model_forms", formId.String(), "download"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload := struct {
		Files []apickpt.File `json:"files"`
	}{}
	if err := unmarshalJsonResponse(resp, &payload, MessageFor{
		Status4xx: "failed to fetch download URLs of the checkpoint",
		Status5xx: "server error at fetching download URLs of the checkpoint",
	}); err != nil {
		return nil, err
	}
	return payload.Files, nil
}
