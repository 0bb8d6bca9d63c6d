//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/2beens/portfolioapi/internal/contact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestContactMessages() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := s.registerUser(ctx, adminUsername)
	visitor := s.registerUser(ctx, "")

	resp := s.doRequest(ctx, http.MethodPost, "/api/contact", "", contact.CreateInput{
		Name:    "Jane",
		Email:   "not-an-email",
		Message: "hi",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodPost, "/api/contact", "", contact.CreateInput{
		Name:    "Jane",
		Email:   "Jane@Example.com",
		Message: "let's work together",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body.Error)
	assert.Equal(t, "Message sent successfully", resp.Body.Message)
	var msg contact.Message
	s.decodeData(resp, &msg)
	assert.Equal(t, "jane@example.com", msg.Email)
	assert.False(t, msg.Read)

	resp = s.doRequest(ctx, http.MethodGet, "/api/contact", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/api/contact", visitor.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/api/contact", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.Body.Count)
	assert.Equal(t, 1, *resp.Body.Count)

	resp = s.doRequest(ctx, http.MethodPut, "/api/contact/"+msg.ID.String()+"/read", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var read contact.Message
	s.decodeData(resp, &read)
	assert.True(t, read.Read)

	resp = s.doRequest(ctx, http.MethodDelete, "/api/contact/"+msg.ID.String(), admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Message deleted successfully", resp.Body.Message)

	resp = s.doRequest(ctx, http.MethodDelete, "/api/contact/"+msg.ID.String(), admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Message not found", resp.Body.Error)
}

func (s *IntegrationTestSuite) TestMiscEndpoints() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := s.doRequest(ctx, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", resp.Body.Error)
}
