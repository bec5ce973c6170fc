//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/middleware"

	"github.com/stretchr/testify/require"
)

func waitForServer(ctx context.Context) error {
	var lastErr error
	for i := 0; i < 50; i++ {
		req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+"/", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Origin", testOrigin)
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	return lastErr
}

// setupDatabase creates the tables through the API, authenticated by the admin secret.
func setupDatabase(ctx context.Context, secret string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/database-setup", nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Origin", testOrigin)
	req.Header.Set(middleware.MCPSecretHeader, secret)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

// doRequest sends body as JSON when it is not nil and returns the status and the response body.
func doRequest(ctx context.Context, t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Origin", testOrigin)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

// registerAndLogin creates the user when needed and returns a fresh session token.
func registerAndLogin(ctx context.Context, t *testing.T, username string) string {
	t.Helper()

	creds := auth.Credentials{Username: username, Password: testPassword}
	status, body := doRequest(ctx, t, "POST", "/a/register", "", creds)
	require.Contains(t, []int{http.StatusCreated, http.StatusConflict}, status, string(body))

	status, body = doRequest(ctx, t, "POST", "/a/login", "", creds)
	require.Equal(t, http.StatusOK, status, string(body))

	resp := decode[map[string]string](t, body)
	require.NotEmpty(t, resp["token"], fmt.Sprintf("login response: %s", body))
	return resp["token"]
}
