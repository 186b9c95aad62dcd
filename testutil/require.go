/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/require"
)

type tHelper interface {
	Helper()
}

// RequireNoErrorInChannel asserts that a buffered error channel is empty or holds nil.
func RequireNoErrorInChannel(t require.TestingT, c <-chan error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	var err error
	select {
	case err = <-c:
	default:
	}
	require.NoError(t, err, msgAndArgs...)
}

// RequireJSONResponse asserts the status code and JSON content type of resp and decodes its body into dst.
func RequireJSONResponse(t require.TestingT, resp *httptest.ResponseRecorder, wantStatus int, dst interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.Equal(t, wantStatus, resp.Code, resp.Body.String())
	require.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// NewRequest is httptest.NewRequest for tests that don't send a body.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, http.NoBody)
}
