package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	apicred "github.com/periflow/cli/pkg/api/types/credentials"
)

func (c *client) ListCredentials(ctx context.Context, projectId uuid.UUID, credType apicred.Type) ([]apicred.Credential, error) {
	u := c.authpath("pf_project", projectId.String(), "credential")
	if credType != "" {
		name, err := credType.ServerName()
		if err != nil {
			return nil, err
		}
		u += "?" + url.Values{"type": {name}}.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, u, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	creds := []apicred.Credential{}
	if err := unmarshalJsonResponse(resp, &creds, MessageFor{
		Status4xx: "failed to list credentials",
		Status5xx: "server error at listing credentials",
	}); err != nil {
		return nil, err
	}
	return creds, nil
}

func (c *client) CreateCredential(ctx context.Context, projectId uuid.UUID, spec apicred.Spec) (apicred.Credential, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPost, c.authpath("pf_project", projectId.String(), "credential"),
		spec,
	)
	if err != nil {
		return apicred.Credential{}, err
	}
	defer resp.Body.Close()

	cred := apicred.Credential{}
	if err := unmarshalJsonResponse(resp, &cred, MessageFor{
		Status4xx: "failed to create the credential",
		Status5xx: "server error at creating the credential",
	}); err != nil {
		return apicred.Credential{}, err
	}
	return cred, nil
}

func (c *client) GetCredential(ctx context.Context, credentialId uuid.UUID) (apicred.Credential, error) {
	resp, err := c.do(ctx, http.MethodGet, c.authpath("credential", credentialId.String()), "", nil)
	if err != nil {
		return apicred.Credential{}, err
	}
	defer resp.Body.Close()

	cred := apicred.Credential{}
	if err := unmarshalJsonResponse(resp, &cred, MessageFor{
		Status4xx: "failed to fetch the credential",
		Status5xx: "server error at fetching the credential",
	}); err != nil {
		return apicred.Credential{}, err
	}
	return cred, nil
}

func (c *client) UpdateCredential(ctx context.Context, credentialId uuid.UUID, update apicred.Update) (apicred.Credential, error) {
	resp, err := c.doJSON(
		ctx, http.MethodPatch, c.authpath("credential", credentialId.String()),
		update,
	)
	if err != nil {
		return apicred.Credential{}, err
	}
	defer resp.Body.Close()

	cred := apicred.Credential{}
	if err := unmarshalJsonResponse(resp, &cred, MessageFor{
		Status4xx: "failed to update the credential",
		Status5xx: "server error at updating the credential",
	}); err != nil {
		return apicred.Credential{}, err
	}
	return cred, nil
}

func (c *client) DeleteCredential(ctx context.Context, credentialId uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, c.authpath("credential", credentialId.String()), "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to delete the credential",
		Status5xx: "server error at deleting the credential",
	})
}
