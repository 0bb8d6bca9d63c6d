package projects

import (
	"strings"
	"time"

	"github.com/2beens/portfolioapi/internal/users"
	"github.com/2beens/portfolioapi/pkg"

	"github.com/google/uuid"
)

type Project struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"imageUrl"`
	RepoURL      string       `json:"repoUrl"`
	LiveURL      string       `json:"liveUrl"`
	Technologies []string     `json:"technologies"`
	User         users.Author `json:"user"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type CreateInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required"`
	ImageURL     string   `json:"imageUrl" validate:"max=2048"`
	RepoURL      string   `json:"repoUrl" validate:"max=2048"`
	LiveURL      string   `json:"liveUrl" validate:"max=2048"`
	Technologies []string `json:"technologies" validate:"max=50,dive,max=100"`
}

func (in *CreateInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Technologies = pkg.CleanStrings(in.Technologies)
}

// UpdateInput holds the fields to change, nil fields are left as they are
type UpdateInput struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"imageUrl"`
	RepoURL      *string   `json:"repoUrl"`
	LiveURL      *string   `json:"liveUrl"`
	Technologies *[]string `json:"technologies"`
}

// merge applies the set fields on a copy of p
func (in UpdateInput) merge(p Project) *Project {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.RepoURL != nil {
		p.RepoURL = *in.RepoURL
	}
	if in.LiveURL != nil {
		p.LiveURL = *in.LiveURL
	}
	if in.Technologies != nil {
		p.Technologies = *in.Technologies
	}
	return &p
}

func (p *Project) asInput() CreateInput {
	return CreateInput{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		RepoURL:      p.RepoURL,
		LiveURL:      p.LiveURL,
		Technologies: p.Technologies,
	}
}
