package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	apidata "github.com/periflow/cli/pkg/api/types/datasets"
)

func (c *client) ListDatasets(ctx context.Context, projectId uuid.UUID) ([]apidata.Dataset, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.apipath("project", projectId.String(), "datastore"), "", nil,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	datasets := []apidata.Dataset{}
	if err := unmarshalJsonResponse(resp, &datasets, MessageFor{
		Status4xx: "failed to list datasets",
		Status5xx: "server error at listing datasets",
	}); err != nil {
		return nil, err
	}
	return datasets, nil
}

func (c *client) GetDataset(ctx context.Context, datasetId int) (apidata.Dataset, error) {
	resp, err := c.do(
		ctx, http.MethodGet, c.apipath("datastore", strconv.Itoa(datasetId)), "", nil,
	)
	if err != nil {
		return apidata.Dataset{}, err
	}
	defer resp.Body.Close()

	dataset := apidata.Dataset{}
	if err := unmarshalJsonResponse(resp, &dataset, MessageFor{
		Status4xx: "failed to fetch the dataset",
		Status5xx: "server error at fetching the dataset",
	}); err != nil {
		return apidata.Dataset{}, err
	}
	return dataset, nil
}

func (c *client) CreateDataset(ctx context.Context, projectId uuid.UUID, spec apidata.Spec) (apidata.Dataset, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPost, c.apipath("project", projectId.String(), "datastore"), spec,
	)
	if err != nil {
		return apidata.Dataset{}, err
	}
	defer resp.Body.Close()

	dataset := apidata.Dataset{}
	if err := unmarshalJsonResponse(resp, &dataset, MessageFor{
		Status4xx: "failed to create the dataset",
		Status5xx: "server error at creating the dataset",
	}); err != nil {
		return apidata.Dataset{}, err
	}
	return dataset, nil
}

func (c *client) UpdateDataset(ctx context.Context, datasetId int, update apidata.Update) (apidata.Dataset, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPatch, c.apipath("datastore", strconv.Itoa(datasetId)), update,
	)
	if err != nil {
		return apidata.Dataset{}, err
	}
	defer resp.Body.Close()

	dataset := apidata.Dataset{}
	if err := unmarshalJsonResponse(resp, &dataset, MessageFor{
		Status4xx: "failed to update the dataset",
		Status5xx: "server error at updating the dataset",
	}); err != nil {
		return apidata.Dataset{}, err
	}
	return dataset, nil
}

func (c *client) DeleteDataset(ctx context.Context, datasetId int) error {
	resp, err := c.do(
		ctx, http.MethodDelete, c.apipath("datastore", strconv.Itoa(datasetId)), "", nil,
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to delete the dataset",
		Status5xx: "server error at deleting the dataset",
	})
}
