package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/periflow/cli/cmd/pf/errors"
	apierr "github.com/periflow/cli/pkg/api/types/errors"
)

type MessageFor map[StatusCodeRange]string

// unmarshal http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be.
//   - messageFor: title of error message for HTTP status code range.
//
// return:
//
//	error if...
//	- can not read response body
//	- response body is not shaped of v
//	- status code is in 4xx or 5xx
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			message := fmt.Sprintf("unexpected error: %s (status code = %d)", err.Error(), resp.StatusCode)
			return cerr.NewCuiError(message, cerr.WithCause(err))
		}
		return nil
	}

	return errorFromResponse(resp, scr, messageFor)
}

func jsonUnmarshal[T any](buf []byte) (*T, error) {
	ret := new(T)
	if err := json.Unmarshal(buf, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func unmarshalStreamResponse(resp *http.Response, messageFor MessageFor) (io.ReadCloser, error) {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		return resp.Body, nil
	}

	return nil, errorFromResponse(resp, scr, messageFor)
}

func unmarshalResponseDiscardingPayload(resp *http.Response, messageFor MessageFor) error {
	rc, err := unmarshalStreamResponse(resp, messageFor)
	if rc != nil {
		io.ReadAll(rc)
		rc.Close()
	}
	return err
}

func errorFromResponse(resp *http.Response, scr StatusCodeRange, messageFor MessageFor) error {
	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := cerr.NewCuiError(
			fmt.Sprintf(
				"%s\ncannot read server message: %s",
				message, err.Error(),
			),
			cerr.WithCause(err),
		)
		return e
	}

	detail := parseErrorMessage(resp.StatusCode, body)
	return cerr.NewCuiError(
		message,
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + detail, nil
		}),
	)
}

func parseErrorMessage(statusCode int, body []byte) string {
	if eresp, err := jsonUnmarshal[apierr.ErrorMessage](body); err == nil && eresp.Detail != "" {
		return fmt.Sprintf("error code: %d\ndetail: %s", statusCode, eresp.Detail)
	}

	if msg, err := jsonUnmarshal[struct {
		ErrorDescription *string `json:"error_description"`
	}](body); err == nil && msg.ErrorDescription != nil {
		return fmt.Sprintf("error code: %d\ndetail: %s", statusCode, *msg.ErrorDescription)
	}

	return fmt.Sprintf("error code: %d\n%s", statusCode, string(body))
}
