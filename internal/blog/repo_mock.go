package blog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	_ postsRepo    = (*PostsRepoMock)(nil)
	_ commentsRepo = (*CommentsRepoMock)(nil)
)

// PostsRepoMock is an in-memory posts repo, used in tests
type PostsRepoMock struct {
	mutex sync.Mutex
	posts map[uuid.UUID]*Post
	// ability to control timestamps (for ordering in tests)
	NowFunc func() time.Time
}

func NewPostsRepoMock() *PostsRepoMock {
	return &PostsRepoMock{
		posts:   make(map[uuid.UUID]*Post),
		NowFunc: time.Now,
	}
}

func (r *PostsRepoMock) published() []*Post {
	var posts []*Post
	for _, p := range r.posts {
		if !p.Published {
			continue
		}
		stored := *p
		posts = append(posts, &stored)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (r *PostsRepoMock) ListPublished(context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.published(), nil
}

func (r *PostsRepoMock) PublishedCount(context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.published()), nil
}

func (r *PostsRepoMock) ListPublishedPage(_ context.Context, page, size int) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	posts := r.published()
	offset := (page - 1) * size
	if offset >= len(posts) {
		return nil, nil
	}
	end := offset + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (r *PostsRepoMock) Get(_ context.Context, id uuid.UUID) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	found := *p
	return &found, nil
}

func (r *PostsRepoMock) Create(_ context.Context, p *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.NowFunc()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	r.posts[p.ID] = &stored
	return nil
}

func (r *PostsRepoMock) Update(_ context.Context, p *Post, authorID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.posts[p.ID]
	if !ok || existing.Author.ID != authorID {
		return ErrPostNotFound
	}
	p.UpdatedAt = r.NowFunc()
	stored := *p
	stored.CreatedAt = existing.CreatedAt
	r.posts[p.ID] = &stored
	return nil
}

func (r *PostsRepoMock) Delete(_ context.Context, id, authorID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.posts[id]
	if !ok || existing.Author.ID != authorID {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// CommentsRepoMock is an in-memory comments repo, used in tests
type CommentsRepoMock struct {
	mutex    sync.Mutex
	comments map[uuid.UUID]*Comment
	NowFunc  func() time.Time
}

func NewCommentsRepoMock() *CommentsRepoMock {
	return &CommentsRepoMock{
		comments: make(map[uuid.UUID]*Comment),
		NowFunc:  time.Now,
	}
}

func (r *CommentsRepoMock) ListByPost(_ context.Context, postID uuid.UUID) ([]*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var comments []*Comment
	for _, c := range r.comments {
		if c.PostID != postID {
			continue
		}
		stored := *c
		comments = append(comments, &stored)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *CommentsRepoMock) Create(_ context.Context, c *Comment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c.CreatedAt = r.NowFunc()
	stored := *c
	r.comments[c.ID] = &stored
	return nil
}

func (r *CommentsRepoMock) DeleteByPost(_ context.Context, postID uuid.UUID) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var deleted int64
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *CommentsRepoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.comments)
}
