package projects

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepoMock is an in-memory projects repo, used in tests
type RepoMock struct {
	mutex    sync.Mutex
	projects map[uuid.UUID]*Project
	// ability to control timestamps (for ordering in tests)
	NowFunc func() time.Time
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		projects: make(map[uuid.UUID]*Project),
		NowFunc:  time.Now,
	}
}

func (r *RepoMock) List(context.Context) ([]*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var projects []*Project
	for _, p := range r.projects {
		stored := *p
		projects = append(projects, &stored)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *RepoMock) Get(_ context.Context, id uuid.UUID) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	found := *p
	return &found, nil
}

func (r *RepoMock) Create(_ context.Context, p *Project) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.NowFunc()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	r.projects[p.ID] = &stored
	return nil
}

func (r *RepoMock) Update(_ context.Context, p *Project, ownerID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.projects[p.ID]
	if !ok || existing.User.ID != ownerID {
		return ErrProjectNotFound
	}
	p.UpdatedAt = r.NowFunc()
	stored := *p
	stored.CreatedAt = existing.CreatedAt
	r.projects[p.ID] = &stored
	return nil
}

func (r *RepoMock) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.projects[id]
	if !ok || existing.User.ID != ownerID {
		return ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}
