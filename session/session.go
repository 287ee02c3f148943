// Package session tracks the current-user identity and authentication flag,
// backed by key-value persistence. Every mutating operation persists its
// result and broadcasts fresh snapshots on the user and authentication
// channels so dependents (the cart engine) can react.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/electrostore/storefront/broadcast"
	"github.com/electrostore/storefront/entities"
	"github.com/electrostore/storefront/kv"
	"github.com/electrostore/storefront/token"
)

const (
	accessTokenKey  = "electrostore:access_token"
	refreshTokenKey = "electrostore:refresh_token"
	currentUserKey  = "electrostore:current_user"
	usersKey        = "electrostore:users"
)

var ErrInvalidInput = errors.New("invalid input")

// Credentials is the login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up request.
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone"`
}

// Response is the structured result of every session operation. Expected
// failures come back with Success=false and a message suitable for direct
// display; they are never signalled through errors.
type Response struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	User         *entities.User `json:"user,omitempty"`
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
}

// storedUser is the persisted users-collection record. It carries the
// password, demo-only; sanitized copies go everywhere else.
type storedUser struct {
	entities.User
	Password string `json:"password"`
}

type Store struct {
	store    kv.Store
	tokens   *token.Manager
	logger   *zap.Logger
	validate *validator.Validate
	delay    time.Duration
	now      func() time.Time

	mu            sync.RWMutex
	user          *entities.User
	authenticated bool

	userUpdates *broadcast.Broadcaster[*entities.User]
	authUpdates *broadcast.Broadcaster[bool]
}

type Option func(*Store)

// WithDelay sets the simulated network latency applied to login/register.
func WithDelay(d time.Duration) Option {
	return func(s *Store) {
		s.delay = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(store kv.Store, tokens *token.Manager, opts ...Option) *Store {
	ans := Store{
		store:       store,
		tokens:      tokens,
		logger:      zap.NewNop(),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		now:         time.Now,
		userUpdates: broadcast.New[*entities.User](),
		authUpdates: broadcast.New[bool](),
	}

	for _, opt := range opts {
		opt(&ans)
	}

	return &ans
}

// Login looks up a user by case-insensitive email and exact password match.
// A simulated network delay runs before the lookup.
func (s *Store) Login(ctx context.Context, creds Credentials) Response {
	if err := s.wait(ctx); err != nil {
		return Response{Message: "request cancelled"}
	}

	if err := s.validate.Struct(creds); err != nil {
		return Response{Message: entities.ErrInvalidCredentials.Error()}
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load users collection", zap.Error(err))
		return Response{Message: "login is temporarily unavailable"}
	}

	idx := findByEmail(users, creds.Email)
	if idx < 0 || users[idx].Password != creds.Password {
		return Response{Message: entities.ErrInvalidCredentials.Error()}
	}

	now := s.now()
	users[idx].LastAccessAt = &now

	if err := s.saveUsers(ctx, users); err != nil {
		s.logger.Error("failed to persist users collection", zap.Error(err))
		return Response{Message: "login is temporarily unavailable"}
	}

	user := users[idx].User

	access, refresh, err := s.establish(ctx, &user)
	if err != nil {
		s.logger.Error("failed to establish session", zap.Error(err))
		return Response{Message: "login is temporarily unavailable"}
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))

	return Response{
		Success:      true,
		Message:      "welcome back, " + user.FirstName,
		User:         &user,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

// Register creates a new user with the default role after validating the
// password policy and the email's uniqueness, then authenticates it.
func (s *Store) Register(ctx context.Context, reg Registration) Response {
	if err := s.wait(ctx); err != nil {
		return Response{Message: "request cancelled"}
	}

	if err := s.validate.Struct(reg); err != nil {
		return Response{Message: registrationMessage(err)}
	}

	if reg.Password != reg.ConfirmPassword {
		return Response{Message: entities.ErrPasswordMismatch.Error()}
	}

	if err := checkPasswordStrength(reg.Password); err != nil {
		return Response{Message: err.Error()}
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load users collection", zap.Error(err))
		return Response{Message: "registration is temporarily unavailable"}
	}

	if findByEmail(users, reg.Email) >= 0 {
		return Response{Message: entities.ErrEmailTaken.Error()}
	}

	now := s.now()
	user := entities.User{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(reg.Email)),
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
		Role:      entities.RoleUser,
		CreatedAt: now,
		Active:    true,
	}

	users = append(users, storedUser{User: user, Password: reg.Password})

	if err := s.saveUsers(ctx, users); err != nil {
		s.logger.Error("failed to persist users collection", zap.Error(err))
		return Response{Message: "registration is temporarily unavailable"}
	}

	access, refresh, err := s.establish(ctx, &user)
	if err != nil {
		s.logger.Error("failed to establish session", zap.Error(err))
		return Response{Message: "registration is temporarily unavailable"}
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return Response{
		Success:      true,
		Message:      "welcome, " + user.FirstName,
		User:         &user,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

// Logout clears the persisted tokens and the in-memory identity and
// notifies subscribers. It never fails.
func (s *Store) Logout(ctx context.Context) {
	for _, key := range []string{accessTokenKey, refreshTokenKey, currentUserKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete session key", zap.String("key", key), zap.Error(err))
		}
	}

	s.setState(nil, false)
	s.logger.Info("user logged out")
}

// IsAuthenticated is true iff a non-expired persisted token and a cached
// user record are both present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	user, authenticated := s.user, s.authenticated
	s.mu.RUnlock()

	if user == nil || !authenticated {
		return false
	}

	raw, err := s.store.Get(context.Background(), accessTokenKey)
	if err != nil {
		return false
	}

	return !s.tokens.IsExpired(raw)
}

// Restore re-derives the in-memory identity from the persisted token at
// startup. Storage or decode failures degrade to "not authenticated".
func (s *Store) Restore(ctx context.Context) {
	raw, err := s.store.Get(ctx, accessTokenKey)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			s.logger.Warn("failed to read persisted token", zap.Error(err))
		}

		s.clearPersisted(ctx)
		return
	}

	if s.tokens.IsExpired(raw) {
		s.logger.Info("persisted token expired, clearing session")
		s.clearPersisted(ctx)
		return
	}

	cached, err := s.store.Get(ctx, currentUserKey)
	if err != nil {
		s.logger.Warn("persisted token without cached user, clearing session", zap.Error(err))
		s.clearPersisted(ctx)
		return
	}

	var user entities.User
	if err := json.Unmarshal([]byte(cached), &user); err != nil {
		s.logger.Warn("cached user record is malformed, clearing session", zap.Error(err))
		s.clearPersisted(ctx)
		return
	}

	s.setState(&user, true)
	s.logger.Info("session restored", zap.String("user_id", user.ID))
}

// CurrentUser returns a copy of the authenticated user, nil when signed out.
func (s *Store) CurrentUser() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}

	user := *s.user

	return &user
}

// SubscribeUser delivers identity snapshots; nil means signed out.
func (s *Store) SubscribeUser() (<-chan *entities.User, func()) {
	return s.userUpdates.Subscribe()
}

// SubscribeAuth delivers authentication-flag transitions.
func (s *Store) SubscribeAuth() (<-chan bool, func()) {
	return s.authUpdates.Subscribe()
}

// establish persists the token pair and the sanitized user cache, then
// flips the in-memory state.
func (s *Store) establish(ctx context.Context, user *entities.User) (access, refresh string, err error) {
	access, err = s.tokens.Issue(user.ID, user.Email, user.FirstName, user.Role)
	if err != nil {
		return "", "", err
	}

	refresh = uuid.New().String()

	cached, err := json.Marshal(user)
	if err != nil {
		return "", "", err
	}

	err = multierr.Combine(
		s.store.Set(ctx, accessTokenKey, access),
		s.store.Set(ctx, refreshTokenKey, refresh),
		s.store.Set(ctx, currentUserKey, string(cached)),
	)
	if err != nil {
		return "", "", err
	}

	s.setState(user, true)

	return access, refresh, nil
}

func (s *Store) setState(user *entities.User, authenticated bool) {
	s.mu.Lock()
	s.user = user
	s.authenticated = authenticated
	s.mu.Unlock()

	s.userUpdates.Publish(user)
	s.authUpdates.Publish(authenticated)
}

func (s *Store) clearPersisted(ctx context.Context) {
	for _, key := range []string{accessTokenKey, refreshTokenKey, currentUserKey} {
		_ = s.store.Delete(ctx, key)
	}

	s.setState(nil, false)
}

func (s *Store) loadUsers(ctx context.Context) ([]storedUser, error) {
	raw, err := s.store.Get(ctx, usersKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, err
	}

	var users []storedUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Store) saveUsers(ctx context.Context, users []storedUser) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}

	return s.store.Set(ctx, usersKey, string(raw))
}

func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func findByEmail(users []storedUser, email string) int {
	needle := strings.ToLower(strings.TrimSpace(email))

	for i, u := range users {
		if strings.ToLower(u.Email) == needle {
			return i
		}
	}

	return -1
}

func registrationMessage(err error) string {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		for _, fe := range verr {
			switch fe.Field() {
			case "Email":
				return "a valid email address is required"
			case "Password", "ConfirmPassword":
				return "password and confirmation are required"
			case "FirstName":
				return "first name is required"
			}
		}
	}

	return multierr.Append(ErrInvalidInput, err).Error()
}
