package contact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ messagesRepo = (*RepoMock)(nil)

// RepoMock is an in-memory messages repo, used in tests
type RepoMock struct {
	mutex    sync.Mutex
	messages map[uuid.UUID]*Message
	NowFunc  func() time.Time
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		messages: make(map[uuid.UUID]*Message),
		NowFunc:  time.Now,
	}
}

func (r *RepoMock) Create(_ context.Context, m *Message) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.NowFunc()
	m.CreatedAt = now
	m.UpdatedAt = now
	stored := *m
	r.messages[m.ID] = &stored
	return nil
}

func (r *RepoMock) List(context.Context) ([]*Message, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var messages []*Message
	for _, m := range r.messages {
		stored := *m
		messages = append(messages, &stored)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (r *RepoMock) MarkRead(_ context.Context, id uuid.UUID) (*Message, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	m.Read = true
	m.UpdatedAt = r.NowFunc()
	updated := *m
	return &updated, nil
}

func (r *RepoMock) Delete(_ context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.messages[id]; !ok {
		return ErrMessageNotFound
	}
	delete(r.messages, id)
	return nil
}
