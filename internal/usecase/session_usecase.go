package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront-catalog/internal/domain"
	"storefront-catalog/pkg/cache"
	"storefront-catalog/pkg/logger"
	"storefront-catalog/pkg/utils"

	"github.com/google/uuid"
)

// Session is the state one storefront visitor owns: a query engine, a cart
// and, after login, the remote store account.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
	Engine    *CatalogEngine
	Cart      *domain.Cart

	mu          sync.RWMutex
	user        *domain.User
	remoteToken string
}

// User returns a copy of the signed-in account, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// RemoteToken is the remote store access token of the signed-in account.
func (s *Session) RemoteToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteToken
}

func (s *Session) SetUser(u domain.User, remoteToken string) {
	s.mu.Lock()
	s.user = &u
	s.remoteToken = remoteToken
	s.mu.Unlock()
}

func (s *Session) ClearUser() {
	s.mu.Lock()
	s.user = nil
	s.remoteToken = ""
	s.mu.Unlock()
}

type SessionUsecase struct {
	catalog    *CatalogUsecase
	store      cache.CacheService
	signer     *utils.TokenSigner
	ttl        time.Duration
	maxCartQty int
}

// NewSessionUsecase keeps sessions in store; expiry or deletion closes the
// session's engine.
func NewSessionUsecase(catalog *CatalogUsecase, store cache.CacheService, signer *utils.TokenSigner, ttl time.Duration, maxCartQty int) *SessionUsecase {
	store.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*Session); ok {
			s.Engine.Close()
			logger.Debug().Str("session_id", s.ID).Msg("Session evicted")
		}
	})
	return &SessionUsecase{
		catalog:    catalog,
		store:      store,
		signer:     signer,
		ttl:        ttl,
		maxCartQty: maxCartQty,
	}
}

// Create starts a session, loads its first catalog page and signs its token.
// A failed first load is reported in the session's view, not as an error.
func (uc *SessionUsecase) Create(ctx context.Context) (*Session, string, error) {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
		Engine:    uc.catalog.NewEngine(),
		Cart:      domain.NewCart(uc.maxCartQty),
	}

	token, expiresAt, err := uc.signer.Generate(s.ID, uc.ttl)
	if err != nil {
		s.Engine.Close()
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	s.ExpiresAt = expiresAt

	if _, err := s.Engine.Reconcile(ctx); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("session_id", s.ID).Msg("Initial catalog load failed")
	}

	uc.store.Set(sessionKey(s.ID), s, uc.ttl)
	return s, token, nil
}

// Resolve maps a session token to its live session.
func (uc *SessionUsecase) Resolve(ctx context.Context, token string) (*Session, error) {
	id, err := uc.signer.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	val, found := uc.store.Get(sessionKey(id))
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return val.(*Session), nil
}

// End drops a session and closes its engine.
func (uc *SessionUsecase) End(id string) {
	uc.store.Delete(sessionKey(id))
}

// EndAll drops every session, closing each engine.
func (uc *SessionUsecase) EndAll() {
	for _, key := range uc.store.Keys() {
		uc.store.Delete(key)
	}
}

func (uc *SessionUsecase) ActiveSessions() int {
	return len(uc.store.Keys())
}

func sessionKey(id string) string {
	return "session:" + id
}
