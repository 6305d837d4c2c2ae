package memory

import (
	"context"
	"strings"
	"sync"

	domainauth "courtside/internal/domain/auth"
	domainuser "courtside/internal/domain/user"
)

// UserRepository keeps users indexed by id and lowercased email.
type UserRepository struct {
	mu      sync.RWMutex
	items   map[domainuser.UserID]*domainuser.User
	byEmail map[string]domainuser.UserID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		items:   make(map[domainuser.UserID]*domainuser.User),
		byEmail: make(map[string]domainuser.UserID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.UserID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	c := *r.items[id]
	return &c, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if owner, ok := r.byEmail[email]; ok && owner != u.ID {
		return domainuser.ErrEmailTaken
	}
	if prev, ok := r.items[u.ID]; ok && prev.Email != email {
		delete(r.byEmail, prev.Email)
	}
	c := *u
	r.items[u.ID] = &c
	r.byEmail[email] = u.ID
	return nil
}

// SessionStore keeps sessions by token.
type SessionStore struct {
	mu    sync.RWMutex
	items map[domainauth.Token]*domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[domainauth.Token]*domainauth.Session)}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *session
	s.items[session.Token] = &c
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.items[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	c := *session
	return &c, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.items {
		if session.UserID == userID {
			delete(s.items, token)
		}
	}
	return nil
}
