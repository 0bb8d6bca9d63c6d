package blog

import (
	"strings"
	"time"

	"github.com/2beens/portfolioapi/internal/users"
	"github.com/2beens/portfolioapi/pkg"

	"github.com/google/uuid"
)

const (
	excerptLength = 150
	excerptSuffix = "..."
)

type Post struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Excerpt    string       `json:"excerpt"`
	CoverImage string       `json:"coverImage"`
	Tags       []string     `json:"tags"`
	Author     users.Author `json:"author"`
	Published  bool         `json:"published"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// PostWithComments is a single post as served to readers, comments newest first
type PostWithComments struct {
	*Post
	Comments []*Comment `json:"comments"`
}

type Comment struct {
	ID        uuid.UUID    `json:"id"`
	Body      string       `json:"body"`
	PostID    uuid.UUID    `json:"post"`
	Author    users.Author `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Excerpt derives the preview of a post content,
// the suffix is appended even when the content is shorter than the preview
func Excerpt(content string) string {
	return pkg.TruncateRunes(content, excerptLength) + excerptSuffix
}

type CreatePostInput struct {
	Title      string   `json:"title" validate:"required,max=300"`
	Content    string   `json:"content" validate:"required"`
	Excerpt    string   `json:"excerpt" validate:"max=1000"`
	CoverImage string   `json:"coverImage" validate:"max=2048"`
	Tags       []string `json:"tags" validate:"max=50,dive,max=100"`
	// nil means published
	Published *bool `json:"published"`
}

func (in *CreatePostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Tags = pkg.CleanStrings(in.Tags)
	if in.Excerpt == "" && in.Content != "" {
		in.Excerpt = Excerpt(in.Content)
	}
}

// UpdatePostInput holds the fields to change, nil fields are left as they are
type UpdatePostInput struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"coverImage"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

// merge applies the set fields on a copy of p
func (in UpdatePostInput) merge(p Post) *Post {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		// a derived excerpt follows the content, a custom one is kept
		if in.Excerpt == nil && p.Excerpt == Excerpt(p.Content) {
			p.Excerpt = ""
		}
		p.Content = *in.Content
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	return &p
}

func (p *Post) asInput() CreatePostInput {
	published := p.Published
	return CreatePostInput{
		Title:      p.Title,
		Content:    p.Content,
		Excerpt:    p.Excerpt,
		CoverImage: p.CoverImage,
		Tags:       p.Tags,
		Published:  &published,
	}
}

type CreateCommentInput struct {
	Body string `json:"body" validate:"required,max=5000"`
}

func (in *CreateCommentInput) normalize() {
	in.Body = strings.TrimSpace(in.Body)
}
