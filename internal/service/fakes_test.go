package service

import (
	"context"

	"habita/auth/internal/models"
	"habita/auth/internal/repository"
	"habita/auth/internal/session"
)

// memStore mimics the pgx repository, including its storage-level
// uniqueness behavior.
type memStore struct {
	users map[string]models.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]models.User)}
}

func (m *memStore) Create(_ context.Context, user models.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) Update(_ context.Context, id string, upd repository.UserUpdate) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	if upd.Username != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Username == *upd.Username {
				return repository.ErrDuplicateUser
			}
		}
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *upd.Email {
				return repository.ErrDuplicateUser
			}
		}
		user.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = upd.PasswordHash
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.InmobiliariaID != nil {
		if *upd.InmobiliariaID == "" {
			user.InmobiliariaID = nil
		} else {
			value := *upd.InmobiliariaID
			user.InmobiliariaID = &value
		}
	}

	m.users[id] = user
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) ListAll(_ context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *memStore) ListByInmobiliaria(_ context.Context, inmobiliariaID string) ([]models.User, error) {
	users := []models.User{}
	for _, user := range m.users {
		if user.InmobiliariaID != nil && *user.InmobiliariaID == inmobiliariaID {
			users = append(users, user)
		}
	}
	return users, nil
}

type fakeBinding struct {
	userID string
	token  string
}

type fakeSessions struct {
	bindings map[string]fakeBinding
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{bindings: make(map[string]fakeBinding)}
}

func (f *fakeSessions) Bind(_ context.Context, sessionID, userID, token string) error {
	f.bindings[sessionID] = fakeBinding{userID: userID, token: token}
	return nil
}

func (f *fakeSessions) Lookup(_ context.Context, sessionID string) (string, error) {
	binding, ok := f.bindings[sessionID]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return binding.token, nil
}

func (f *fakeSessions) Clear(_ context.Context, sessionID string) error {
	delete(f.bindings, sessionID)
	return nil
}

func (f *fakeSessions) ClearUser(_ context.Context, userID string) error {
	for sessionID, binding := range f.bindings {
		if binding.userID == userID {
			delete(f.bindings, sessionID)
		}
	}
	return nil
}
