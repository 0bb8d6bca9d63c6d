package projects

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

var (
	ErrNotAuthorizedToUpdate = apierr.Forbidden("Not authorized to update this project")
	ErrNotAuthorizedToDelete = apierr.Forbidden("Not authorized to delete this project")
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=projects_test

type projectsRepo interface {
	List(ctx context.Context) ([]*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project, ownerID uuid.UUID) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type Service struct {
	repo projectsRepo
}

func NewService(repo projectsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.projects.list")
	defer span.End()

	projects, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.projects.get")
	defer span.End()
	span.SetAttributes(attribute.String("project.id", id.String()))

	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput, caller *auth.Identity) (_ *Project, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.projects.create")
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

	project := &Project{
		ID:           uuid.New(),
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		RepoURL:      in.RepoURL,
		LiveURL:      in.LiveURL,
		Technologies: in.Technologies,
		User: users.Author{
			ID:       caller.ID,
			Username: caller.Username,
		},
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	log.Tracef("new project %s: [%s] added by %s", project.ID, project.Title, caller.Username)
	return project, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, caller *auth.Identity) (_ *Project, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.projects.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.User.ID != caller.ID {
		return nil, ErrNotAuthorizedToUpdate
	}

	updated := in.merge(*existing)
	merged := updated.asInput()
	merged.normalize()
	if err := validation.Struct(merged); err != nil {
		return nil, err
	}
	updated.Title = merged.Title
	updated.Technologies = merged.Technologies

	if err := s.repo.Update(ctx, updated, caller.ID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, s.guardFailure(ctx, id, ErrNotAuthorizedToUpdate)
		}
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller *auth.Identity) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.projects.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.User.ID != caller.ID {
		return ErrNotAuthorizedToDelete
	}

	if err := s.repo.Delete(ctx, id, caller.ID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return s.guardFailure(ctx, id, ErrNotAuthorizedToDelete)
		}
		return fmt.Errorf("delete project %s: %w", id, err)
	}

	log.Tracef("project %s deleted by %s", id, caller.Username)
	return nil
}

// guardFailure tells apart a project deleted meanwhile from one that changed owner
func (s *Service) guardFailure(ctx context.Context, id uuid.UUID, forbidden error) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return forbidden
}

