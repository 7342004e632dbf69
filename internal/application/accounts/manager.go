package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/auth"
	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/events"
	"github.com/aescanero/musica/pkg/adapters/metrics"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// Errors returned by authentication.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
)

// Manager handles user lifecycle and authentication
type Manager struct {
	store    storage.Store
	tokens   *auth.TokenManager
	eventBus events.Bus
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// NewManager creates a new accounts manager
func NewManager(
	store storage.Store,
	tokens *auth.TokenManager,
	eventBus events.Bus,
	rec metrics.Recorder,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		store:    store,
		tokens:   tokens,
		eventBus: eventBus,
		metrics:  rec,
		logger:   logger,
	}
}

// Register creates a new account through the public sign-up flow. The
// role is always the regular user role.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return m.CreateUser(ctx, name, email, password, domain.RoleUser)
}

// CreateUser creates a new account with an explicit role
func (m *Manager) CreateUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}

	if err := m.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	m.logger.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)))
	m.metrics.IncEntityWrite("user", "create")
	m.publish(ctx, domain.EventUserCreated, map[string]interface{}{
		"user_id": user.ID,
		"correo":  user.Email,
	})

	return user, nil
}

// Authenticate verifies credentials and returns the user with a signed
// access token.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			m.metrics.IncAuthFailure("unknown_user")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		m.metrics.IncAuthFailure("bad_password")
		return nil, "", ErrInvalidCredentials
	}

	if !user.Active {
		m.metrics.IncAuthFailure("inactive")
		return nil, "", ErrUserInactive
	}

	token, err := m.tokens.Mint(user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	m.metrics.IncLogins()
	m.logger.Info("user authenticated", zap.Int64("user_id", user.ID))

	return user, token, nil
}

// GetUser returns a user by ID
func (m *Manager) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return m.store.GetUser(ctx, id)
}

// GetUserByEmail returns a user by email. Used by the auth middleware to
// resolve token subjects.
func (m *Manager) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.store.GetUserByEmail(ctx, email)
}

// ListUsers returns users with skip/limit pagination
func (m *Manager) ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	return m.store.ListUsers(ctx, skip, limit)
}

// UserUpdate holds the optional fields of a user update
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Active   *bool
}

// UpdateUser applies a partial update to an existing user
func (m *Manager) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*domain.User, error) {
	user, err := m.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Active != nil {
		user.Active = *update.Active
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := m.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	m.metrics.IncEntityWrite("user", "update")
	m.publish(ctx, domain.EventUserUpdated, map[string]interface{}{
		"user_id": user.ID,
	})

	return user, nil
}

// DeleteUser removes a user. The store cascades to their favorites.
func (m *Manager) DeleteUser(ctx context.Context, id int64) error {
	if err := m.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	m.metrics.IncEntityWrite("user", "delete")
	m.publish(ctx, domain.EventUserDeleted, map[string]interface{}{
		"user_id": id,
	})

	return nil
}

func (m *Manager) publish(ctx context.Context, eventType domain.EventType, data map[string]interface{}) {
	event := &domain.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := m.eventBus.Publish(ctx, events.TopicCatalog, event); err != nil {
		m.logger.Warn("failed to publish event",
			zap.String("type", string(eventType)),
			zap.Error(err))
		return
	}
	m.metrics.IncEventPublished(string(eventType))
}
