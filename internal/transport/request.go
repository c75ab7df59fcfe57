package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/skaffolder/pkg/errors"
)

// maxErrorBody bounds the part of an error response kept in messages.
const maxErrorBody = 512

// ReadBody reads a response body, closing it. A non-200 status becomes a
// *errors.FetchError for api.
func ReadBody(resp *http.Response, api string) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapFetch(api, requestURL(resp), fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, errors.NewFetchError(api, requestURL(resp), resp.StatusCode, msg)
	}

	return body, nil
}

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, api string, target any) error {
	body, err := ReadBody(resp, api)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapFetch(api, requestURL(resp), fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func requestURL(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	u := *resp.Request.URL
	u.RawQuery = ""
	return u.String()
}
