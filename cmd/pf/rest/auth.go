package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	cerr "github.com/periflow/cli/cmd/pf/errors"
	apiusers "github.com/periflow/cli/pkg/api/types/users"
)

// bare sends a request without Authorization header.
//
// Used for login, sign up and other endpoints reachable before
// any token is granted.
func (c *client) bare(
	ctx context.Context,
	method string, url string, contentType string, body io.Reader,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpclient.Do(req)
}

func (c *client) bareJSON(ctx context.Context, method string, url string, payload any) (*http.Response, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.bare(ctx, method, url, "application/json", bytes.NewReader(buf))
}

func (c *client) Login(ctx context.Context, username string, password string) (apiusers.Tokens, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.bare(
		ctx, http.MethodPost, c.apipath("token"),
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()),
	)
	if err != nil {
		return apiusers.Tokens{}, err
	}
	defer resp.Body.Close()

	tokens := apiusers.Tokens{}
	if err := unmarshalJsonResponse(resp, &tokens, MessageFor{
		Status4xx: "login failed. check your username and password",
		Status5xx: "server error at login",
	}); err != nil {
		return apiusers.Tokens{}, err
	}

	if err := c.session.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return apiusers.Tokens{}, err
	}
	return tokens, nil
}

func (c *client) SignUp(ctx context.Context, spec apiusers.SignUpSpec) error {
	resp, err := c.bareJSON(ctx, http.MethodPost, c.authpath("pf_user", "self_signup"), spec)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to sign up",
		Status5xx: "server error at sign up",
	})
}

func (c *client) ConfirmSignUp(ctx context.Context, token string) error {
	resp, err := c.bareJSON(
		ctx, http.MethodPost, c.authpath("pf_user", "confirm"),
		map[string]string{"token": token},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to verify the account. check the code in your email",
		Status5xx: "server error at account verification",
	})
}

// parse "sub" claim of the userinfo response, shaped "provider|uuid".
func userIdOfSubject(sub string) (uuid.UUID, error) {
	if idx := strings.LastIndex(sub, "|"); idx >= 0 {
		sub = sub[idx+1:]
	}
	return uuid.Parse(sub)
}

func (c *client) CurrentUser(ctx context.Context) (apiusers.User, error) {
	resp, err := c.do(ctx, http.MethodGet, c.authpath("oauth2", "userinfo"), "", nil)
	if err != nil {
		return apiusers.User{}, err
	}
	defer resp.Body.Close()

	userinfo := struct {
		Sub               string `json:"sub"`
		Name              string `json:"name"`
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
	}{}
	if err := unmarshalJsonResponse(resp, &userinfo, MessageFor{
		Status4xx: "failed to fetch the current user",
		Status5xx: "server error at fetching the current user",
	}); err != nil {
		return apiusers.User{}, err
	}

	id, err := userIdOfSubject(userinfo.Sub)
	if err != nil {
		return apiusers.User{}, cerr.NewCuiError(
			"server returned a broken user identity", cerr.WithCause(err),
		)
	}

	return apiusers.User{
		ID:       id,
		Username: userinfo.PreferredUsername,
		Name:     userinfo.Name,
		Email:    userinfo.Email,
	}, nil
}

func (c *client) ChangePassword(ctx context.Context, oldPassword string, newPassword string) error {
	me, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}

	resp, err := c.doJSON(
		ctx, http.MethodPut, c.authpath("pf_user", me.ID.String(), "password"),
		map[string]string{
			"old_password": oldPassword,
			"new_password": newPassword,
		},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(resp, MessageFor{
		Status4xx: "failed to change the password. check the current password",
		Status5xx: "server error at changing the password",
	})
}
