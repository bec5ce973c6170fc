//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/2beens/fittrack/internal/auth"
)

func (s *IntegrationTestSuite) TestRoot() {
	status, body := doRequest(context.Background(), s.T(), "GET", "/", "", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("fittrack test-version-info", string(body))
}

func (s *IntegrationTestSuite) TestLoginLogout() {
	ctx := context.Background()
	t := s.T()

	status, _ := doRequest(ctx, t, "GET", "/plans/current", "", nil)
	s.Equal(http.StatusUnauthorized, status)

	token := registerAndLogin(ctx, t, "login-logout-user")

	status, _ = doRequest(ctx, t, "GET", "/plans/current", token, nil)
	s.Equal(http.StatusOK, status)

	status, body := doRequest(ctx, t, "GET", "/a/logout", token, nil)
	s.Equal(http.StatusOK, status)
	s.Equal("logged-out", string(body))

	status, _ = doRequest(ctx, t, "GET", "/plans/current", token, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	t := s.T()

	registerAndLogin(ctx, t, "wrong-password-user")

	status, _ := doRequest(ctx, t, "POST", "/a/login", "", auth.Credentials{
		Username: "wrong-password-user",
		Password: "not-the-password",
	})
	s.Equal(http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestDatabaseStatus() {
	ctx := context.Background()

	status, body := doRequest(ctx, s.T(), "GET", "/database-status", "", nil)
	s.Equal(http.StatusOK, status)

	dbStatus := decode[map[string]any](s.T(), body)
	s.Equal(true, dbStatus["ready"])
	s.Empty(dbStatus["missingTables"])
}
