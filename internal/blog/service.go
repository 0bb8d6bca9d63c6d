package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/auth"
	"github.com/2beens/portfolioapi/internal/telemetry/tracing"
	"github.com/2beens/portfolioapi/internal/users"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const MaxPageSize = 100

var (
	ErrNotAuthorizedToUpdate = apierr.Forbidden("Not authorized to update this post")
	ErrNotAuthorizedToDelete = apierr.Forbidden("Not authorized to delete this post")
	ErrInvalidPage           = apierr.Validation("Invalid page or size")
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=blog_test

type postsRepo interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	PublishedCount(ctx context.Context) (int, error)
	ListPublishedPage(ctx context.Context, page, size int) ([]*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post, authorID uuid.UUID) error
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}

type commentsRepo interface {
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	Create(ctx context.Context, c *Comment) error
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type Service struct {
	posts    postsRepo
	comments commentsRepo
}

func NewService(posts postsRepo, comments commentsRepo) *Service {
	return &Service{
		posts:    posts,
		comments: comments,
	}
}

// List returns published posts, newest first
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.list")
	defer span.End()

	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListPage returns a page of published posts together with the total number of published posts
func (s *Service) ListPage(ctx context.Context, page, size int) ([]*Post, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.listPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	if page < 1 || size < 1 || size > MaxPageSize {
		return nil, 0, ErrInvalidPage
	}

	total, err := s.posts.PublishedCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts, err := s.posts.ListPublishedPage(ctx, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts page %d: %w", page, err)
	}
	return posts, total, nil
}

// Get returns the post with its comments, newest first
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PostWithComments, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.get")
	span.SetAttributes(attribute.String("post.id", id.String()))
	defer span.End()

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %s: %w", id, err)
	}
	if comments == nil {
		comments = []*Comment{}
	}

	return &PostWithComments{
		Post:     post,
		Comments: comments,
	}, nil
}

func (s *Service) Create(ctx context.Context, in CreatePostInput, caller *auth.Identity) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &Post{
		ID:         uuid.New(),
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		CoverImage: in.CoverImage,
		Tags:       in.Tags,
		Published:  published,
		Author: users.Author{
			ID:       caller.ID,
			Username: caller.Username,
		},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	log.Tracef("new blog post %s: [%s] added by %s", post.ID, post.Title, caller.Username)
	return post, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdatePostInput, caller *auth.Identity) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	existing, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Author.ID != caller.ID {
		return nil, ErrNotAuthorizedToUpdate
	}

	updated := in.merge(*existing)
	merged := updated.asInput()
	merged.normalize()
	if err := validation.Struct(merged); err != nil {
		return nil, err
	}
	updated.Title = merged.Title
	updated.Excerpt = merged.Excerpt
	updated.Tags = merged.Tags

	if err := s.posts.Update(ctx, updated, caller.ID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, s.guardFailure(ctx, id, ErrNotAuthorizedToUpdate)
		}
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}

	return updated, nil
}

// Delete removes the comments of the post first, then the post itself
func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller *auth.Identity) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	existing, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Author.ID != caller.ID {
		return ErrNotAuthorizedToDelete
	}

	deletedComments, err := s.comments.DeleteByPost(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comments of post %s: %w", id, err)
	}
	span.SetAttributes(attribute.Int64("comments.deleted", deletedComments))

	if err := s.posts.Delete(ctx, id, caller.ID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return s.guardFailure(ctx, id, ErrNotAuthorizedToDelete)
		}
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	log.Tracef("blog post %s deleted by %s, with %d comments", id, caller.Username, deletedComments)
	return nil
}

// guardFailure tells apart a post deleted meanwhile from one that changed author
func (s *Service) guardFailure(ctx context.Context, id uuid.UUID, forbidden error) error {
	if _, err := s.posts.Get(ctx, id); err != nil {
		return err
	}
	return forbidden
}

// ListComments lists comments of a post, newest first; an unknown post has no comments
func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.listComments")
	span.SetAttributes(attribute.String("post.id", postID.String()))
	defer span.End()

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %s: %w", postID, err)
	}
	return comments, nil
}

func (s *Service) CreateComment(ctx context.Context, postID uuid.UUID, in CreateCommentInput, caller *auth.Identity) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.blog.createComment")
	span.SetAttributes(attribute.String("post.id", postID.String()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, err
	}

	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:     uuid.New(),
		Body:   in.Body,
		PostID: postID,
		Author: users.Author{
			ID:       caller.ID,
			Username: caller.Username,
		},
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}
