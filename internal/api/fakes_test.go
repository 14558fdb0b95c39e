package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskward-api/internal/domain"
	"github.com/phrazzld/taskward-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore with the same uniqueness
// semantics as the real one.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	// createErr, when set, is returned by Create to simulate storage failure.
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

var _ store.UserStore = (*fakeUserStore)(nil)

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// fakeTaskStore is an in-memory store.TaskStore implementing the same
// filter, search, sort, and joint existence+ownership semantics as the
// postgres implementation.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	// listErr, when set, is returned by List to simulate storage failure.
	listErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*fakeTaskStore)(nil)

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := task.Validate(); err != nil {
		return err
	}

	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *fakeTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListOptions,
) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	matched := make([]*domain.Task, 0)
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}

		switch opts.Status {
		case store.StatusCompleted:
			if !task.Completed {
				continue
			}
		case store.StatusIncomplete:
			if task.Completed {
				continue
			}
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(task.Title), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}

		clone := *task
		matched = append(matched, &clone)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		switch opts.SortBy {
		case store.SortCreatedAsc:
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		case store.SortUpdatedAsc:
			return matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		case store.SortUpdatedDesc:
			return matched[j].UpdatedAt.Before(matched[i].UpdatedAt)
		default:
			return matched[j].CreatedAt.Before(matched[i].CreatedAt)
		}
	})

	return matched, nil
}

func (s *fakeTaskStore) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.DueDate != nil {
		due := *update.DueDate
		task.DueDate = &due
	}
	task.UpdatedAt = time.Now().UTC()

	clone := *task
	return &clone, nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, taskID)
	return nil
}
