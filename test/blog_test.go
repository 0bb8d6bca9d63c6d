//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/2beens/portfolioapi/internal/blog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) newBlogPost(ctx context.Context, authToken string, in blog.CreatePostInput) *blog.Post {
	resp := s.doRequest(ctx, http.MethodPost, "/api/blog", authToken, in)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, resp.Body.Error)

	var post blog.Post
	s.decodeData(resp, &post)
	s.Require().NotEmpty(post.ID)
	return &post
}

func (s *IntegrationTestSuite) getBlogPostsPage(ctx context.Context, page, size int) blog.PostsPageResponse {
	resp, err := s.httpClient.Get(fmt.Sprintf("%s/api/blog/page/%d/size/%d", serverEndpoint, page, size))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var pageResp blog.PostsPageResponse
	s.Require().NoError(decodeJSON(resp, &pageResp))
	return pageResp
}

func (s *IntegrationTestSuite) TestBlogs() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	author := s.registerUser(ctx, "")
	reader := s.registerUser(ctx, "")

	s.T().Run("try add blog without auth token", func(t *testing.T) {
		resp := s.doRequest(ctx, http.MethodPost, "/api/blog", "", blog.CreatePostInput{
			Title:   "test blog",
			Content: "test content",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	s.T().Run("add posts, page and delete", func(t *testing.T) {
		unpublished := false
		post1 := s.newBlogPost(ctx, author.Token, blog.CreatePostInput{
			Title:   "test blog 1",
			Content: strings.Repeat("a", 200),
			Tags:    []string{" go ", "", "api"},
		})
		post2 := s.newBlogPost(ctx, author.Token, blog.CreatePostInput{
			Title:   "test blog 2",
			Content: "test content 2",
		})
		draft := s.newBlogPost(ctx, author.Token, blog.CreatePostInput{
			Title:     "draft",
			Content:   "not yet",
			Published: &unpublished,
		})

		assert.Equal(t, strings.Repeat("a", 150)+"...", post1.Excerpt)
		assert.Equal(t, []string{"go", "api"}, post1.Tags)
		assert.True(t, post1.Published)
		assert.False(t, draft.Published)

		blogsPage := s.getBlogPostsPage(ctx, 1, 10)
		require.Len(t, blogsPage.Data, 2)
		assert.Equal(t, 2, blogsPage.Total)
		assert.Equal(t, post2.ID, blogsPage.Data[0].ID)
		assert.Equal(t, post1.ID, blogsPage.Data[1].ID)

		blogsPage = s.getBlogPostsPage(ctx, 2, 1)
		require.Len(t, blogsPage.Data, 1)
		assert.Equal(t, post1.ID, blogsPage.Data[0].ID)

		resp := s.doRequest(ctx, http.MethodGet, "/api/blog/page/0/size/10", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		// drafts are hidden from the list, but can be fetched directly
		resp = s.doRequest(ctx, http.MethodGet, "/api/blog/"+draft.ID.String(), "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = s.doRequest(ctx, http.MethodDelete, "/api/blog/"+post1.ID.String(), reader.Token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Not authorized to delete this post", resp.Body.Error)

		resp = s.doRequest(ctx, http.MethodDelete, "/api/blog/"+post1.ID.String(), author.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Blog post deleted successfully", resp.Body.Message)

		blogsPage = s.getBlogPostsPage(ctx, 1, 10)
		require.Len(t, blogsPage.Data, 1)
		assert.Equal(t, 1, blogsPage.Total)
	})
}

func (s *IntegrationTestSuite) TestBlogComments() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	author := s.registerUser(ctx, "")
	reader := s.registerUser(ctx, "")
	post := s.newBlogPost(ctx, author.Token, blog.CreatePostInput{
		Title:   "commented post",
		Content: "content",
	})
	commentsPath := "/api/blog/" + post.ID.String() + "/comments"

	resp := s.doRequest(ctx, http.MethodPost, commentsPath, "", blog.CreateCommentInput{Body: "anonymous"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.doRequest(ctx, http.MethodPost, commentsPath, reader.Token, blog.CreateCommentInput{Body: "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, body := range []string{"first", "second"} {
		resp = s.doRequest(ctx, http.MethodPost, commentsPath, reader.Token, blog.CreateCommentInput{Body: body})
		require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body.Error)
	}

	resp = s.doRequest(ctx, http.MethodGet, commentsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []*blog.Comment
	s.decodeData(resp, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Body)
	assert.Equal(t, reader.ID, comments[0].Author.ID)
	assert.Equal(t, post.ID, comments[0].PostID)

	resp = s.doRequest(ctx, http.MethodGet, "/api/blog/"+post.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withComments blog.PostWithComments
	s.decodeData(resp, &withComments)
	assert.Len(t, withComments.Comments, 2)

	// deleting the post removes its comments
	resp = s.doRequest(ctx, http.MethodDelete, "/api/blog/"+post.ID.String(), author.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var commentsLeft int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments;`).Scan(&commentsLeft))
	assert.Zero(t, commentsLeft)

	resp = s.doRequest(ctx, http.MethodPost, commentsPath, reader.Token, blog.CreateCommentInput{Body: "too late"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Blog post not found", resp.Body.Error)
}
