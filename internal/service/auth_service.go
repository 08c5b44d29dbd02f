package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// AuthService is the single-tenant session gate. Exactly one identity is
// known; matching credentials open a session, which in turn opens the task
// store. This is a placeholder gate, not a security boundary; a real
// deployment must swap it for a credential-verification service.
type AuthService struct {
	store  repository.KV
	tasks  *TaskService
	log    *zap.Logger
	clock  func() time.Time
	secret []byte

	identity     model.Identity
	passwordHash []byte

	mu      sync.RWMutex
	current *model.Identity
}

func NewAuthService(store repository.KV, tasks *TaskService, logger *zap.Logger, identity model.Identity, password string, secret []byte) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		store:        store,
		tasks:        tasks,
		log:          logger,
		clock:        time.Now,
		secret:       secret,
		identity:     identity,
		passwordHash: hash,
	}, nil
}

// Login opens a session when the pair matches the known identity, persists
// it, and loads the task list. Any other pair fails with
// ErrInvalidCredentials; retrying is always allowed.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.Identity, error) {
	if username != s.identity.Username {
		return model.Identity{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return model.Identity{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	identity := s.identity
	s.current = &identity
	s.mu.Unlock()

	s.saveSession(ctx, identity)
	s.tasks.open(ctx)

	s.log.Info("session opened", zap.String("username", identity.Username))
	return identity, nil
}

// Register is a seam for a future registration flow; it always fails.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	_, _, _ = ctx, username, password
	return ErrRegistrationClosed
}

// Logout closes the session, empties the task store, and removes both
// persisted keys. It never fails; store errors degrade to warnings.
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.tasks.close(ctx)
	if err := s.store.Delete(ctx, keyUser); err != nil {
		s.log.Warn("remove persisted session", zap.Error(err))
	}
	s.log.Info("session closed")
}

// Restore reopens a previously saved session at startup. The credential is
// not re-validated; only the token signature is checked.
func (s *AuthService) Restore(ctx context.Context) (model.Identity, bool) {
	raw, ok, err := s.store.Get(ctx, keyUser)
	if err != nil {
		s.log.Warn("read persisted session", zap.Error(err))
		return model.Identity{}, false
	}
	if !ok {
		return model.Identity{}, false
	}

	identity, err := s.parseSession(raw)
	if err != nil {
		s.log.Warn("persisted session is invalid, discarding", zap.Error(err))
		if err := s.store.Delete(ctx, keyUser); err != nil {
			s.log.Warn("remove invalid session", zap.Error(err))
		}
		return model.Identity{}, false
	}

	s.mu.Lock()
	s.current = &identity
	s.mu.Unlock()

	s.tasks.open(ctx)
	s.log.Info("session restored", zap.String("username", identity.Username))
	return identity, true
}

// Current returns the active identity, if any.
func (s *AuthService) Current() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.Identity{}, false
	}
	return *s.current, true
}

func (s *AuthService) saveSession(ctx context.Context, identity model.Identity) {
	claims := jwt.MapClaims{
		"id":       identity.ID,
		"username": identity.Username,
		"iat":      s.clock().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Warn("sign session", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, keyUser, token); err != nil {
		s.log.Warn("persist session", zap.Error(err))
	}
}

func (s *AuthService) parseSession(raw string) (model.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}

	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}
	return model.Identity{ID: id, Username: username}, nil
}
