//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/2beens/portfolioapi/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestRegisterAndLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := s.registerUser(ctx, "")

	t.Run("duplicate registration", func(t *testing.T) {
		resp := s.doRequest(ctx, http.MethodPost, "/api/users/register", "", users.RegisterInput{
			Username: user.Username,
			Email:    "other." + user.Email,
			Password: "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "User already exists", resp.Body.Error)
	})

	cases := map[string]struct {
		loginReq           users.LoginInput
		expectedStatusCode int
		expectedError      string
	}{
		"good creds": {
			loginReq:           users.LoginInput{Email: user.Email, Password: user.Password},
			expectedStatusCode: http.StatusOK,
		},
		"good creds, padded email": {
			loginReq:           users.LoginInput{Email: "  " + user.Email + " ", Password: user.Password},
			expectedStatusCode: http.StatusOK,
		},
		"bad password": {
			loginReq:           users.LoginInput{Email: user.Email, Password: "bad-password"},
			expectedStatusCode: http.StatusUnauthorized,
			expectedError:      "Invalid credentials",
		},
		"unknown email": {
			loginReq:           users.LoginInput{Email: "nobody@example.com", Password: user.Password},
			expectedStatusCode: http.StatusUnauthorized,
			expectedError:      "Invalid credentials",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			resp := s.doRequest(ctx, http.MethodPost, "/api/users/login", "", tc.loginReq)
			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, resp.Body.Error)
				return
			}

			var authResp users.AuthResponse
			s.decodeData(resp, &authResp)
			assert.Equal(t, user.ID, authResp.ID)
			assert.NotEmpty(t, authResp.Token)
		})
	}
}

func (s *IntegrationTestSuite) TestMeAndLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := s.registerUser(ctx, "")

	resp := s.doRequest(ctx, http.MethodGet, "/api/users/me", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me users.User
	s.decodeData(resp, &me)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, user.Username, me.Username)
	assert.NotContains(t, string(resp.Body.Data), "password")

	resp = s.doRequest(ctx, http.MethodGet, "/api/users/me", "invalid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized", resp.Body.Error)

	resp = s.doRequest(ctx, http.MethodPost, "/api/users/logout", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// revocation is enabled in the test config
	resp = s.doRequest(ctx, http.MethodGet, "/api/users/me", user.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLoginRateLimiting() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// simulate login requests brute force attack
	loginReq := users.LoginInput{
		Email:    "test-user@example.com",
		Password: "test-pass",
	}

	for i := 1; i <= loginRateLimit+5; i++ {
		resp := s.doRequest(ctx, http.MethodPost, "/api/users/login", "", loginReq)
		if i <= loginRateLimit {
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "iteration: %d", i)
			assert.Empty(t, resp.Header.Get("Retry-After"), "iteration: %d", i)
			continue
		}

		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
		retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
		require.NoError(t, err, "iteration: %d", i)
		assert.Positive(t, retryAfter, "iteration: %d", i)
	}
}
