package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// CreateUser inserts a new user and fills in its ID
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.RegisteredAt.IsZero() {
		user.RegisteredAt = time.Now().UTC()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO usuarios (nombre, correo, contrasena_hash, rol, activo, fecha_registro)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.Active, user.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", mapConstraintErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUser returns the user with the given ID
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, nombre, correo, contrasena_hash, rol, activo, fecha_registro
		FROM usuarios WHERE id = ?`, id)

	return scanUser(row)
}

// GetUserByEmail returns the user with the given email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, nombre, correo, contrasena_hash, rol, activo, fecha_registro
		FROM usuarios WHERE correo = ?`, email)

	return scanUser(row)
}

// ListUsers returns users ordered by ID with skip/limit pagination
func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nombre, correo, contrasena_hash, rol, activo, fecha_registro
		FROM usuarios ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateUser persists changes to an existing user
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE usuarios
		SET nombre = ?, correo = ?, contrasena_hash = ?, rol = ?, activo = ?
		WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.Active, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapConstraintErr(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteUser removes a user; favorites cascade through the foreign key
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// CountUsers returns the total number of users
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user domain.User
		role string
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.Active, &user.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Role = domain.Role(role)
	return &user, nil
}
