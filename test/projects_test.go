//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/2beens/portfolioapi/internal/projects"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestProjects() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	owner := s.registerUser(ctx, "")
	stranger := s.registerUser(ctx, "")

	resp := s.doRequest(ctx, http.MethodPost, "/api/projects", "", projects.CreateInput{
		Title:       "no auth",
		Description: "no auth",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodPost, "/api/projects", owner.Token, projects.CreateInput{Title: "missing description"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, resp.Body.Error)

	resp = s.doRequest(ctx, http.MethodPost, "/api/projects", owner.Token, projects.CreateInput{
		Title:        "  portfolio api  ",
		Description:  "rest api for the portfolio site",
		RepoURL:      "https://github.com/example/portfolio",
		Technologies: []string{"go", "postgres"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body.Error)
	var created projects.Project
	s.decodeData(resp, &created)
	assert.Equal(t, "portfolio api", created.Title)
	assert.Equal(t, owner.ID, created.User.ID)
	assert.Equal(t, owner.Username, created.User.Username)

	resp = s.doRequest(ctx, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.Body.Count)
	assert.Equal(t, 1, *resp.Body.Count)

	title := "stolen"
	resp = s.doRequest(ctx, http.MethodPut, "/api/projects/"+created.ID.String(), stranger.Token, projects.UpdateInput{Title: &title})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized to update this project", resp.Body.Error)

	resp = s.doRequest(ctx, http.MethodDelete, "/api/projects/"+created.ID.String(), stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	title = "portfolio api v2"
	resp = s.doRequest(ctx, http.MethodPut, "/api/projects/"+created.ID.String(), owner.Token, projects.UpdateInput{Title: &title})
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body.Error)
	var updated projects.Project
	s.decodeData(resp, &updated)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, []string{"go", "postgres"}, updated.Technologies)

	resp = s.doRequest(ctx, http.MethodDelete, "/api/projects/"+created.ID.String(), owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Project deleted successfully", resp.Body.Message)

	resp = s.doRequest(ctx, http.MethodGet, "/api/projects/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/api/projects/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodGet, "/api/projects/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Resource not found", resp.Body.Error)
}
