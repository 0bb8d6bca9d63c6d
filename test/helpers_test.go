//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/portfolioapi/internal/users"

	"github.com/brianvoe/gofakeit/v6"
)

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       envelope
}

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path, authToken string,
	payload any,
) apiResponse {
	var body io.Reader
	if payload != nil {
		payloadJson, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(payloadJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(respBytes, &env), string(respBytes))
	}

	return apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       env,
	}
}

func (s *IntegrationTestSuite) decodeData(resp apiResponse, target any) {
	s.Require().NoError(json.Unmarshal(resp.Body.Data, target))
}

type testUser struct {
	users.AuthResponse
	Password string
}

func (s *IntegrationTestSuite) registerUser(ctx context.Context, username string) testUser {
	if username == "" {
		username = fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(1000, 9999))
	}
	in := users.RegisterInput{
		Username: username,
		Email:    fmt.Sprintf("%d.%s", gofakeit.Number(1000, 9999), gofakeit.Email()),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}

	resp := s.doRequest(ctx, http.MethodPost, "/api/users/register", "", in)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, resp.Body.Error)

	var authResp users.AuthResponse
	s.decodeData(resp, &authResp)
	s.Require().NotEmpty(authResp.Token)

	return testUser{
		AuthResponse: authResp,
		Password:     in.Password,
	}
}

func decodeJSON(resp *http.Response, target any) error {
	return json.NewDecoder(resp.Body).Decode(target)
}
