package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/aescanero/musica/pkg/adapters/storage"
)

// Store implements storage.Store using SQLite
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens (or creates) the SQLite database at path and bootstraps the
// schema. Use ":memory:" for an ephemeral database in tests.
func New(path string, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; serializing through one connection
	// also keeps :memory: databases coherent across the pool.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		correo TEXT NOT NULL UNIQUE,
		contrasena_hash TEXT NOT NULL,
		rol TEXT NOT NULL DEFAULT 'usuario',
		activo INTEGER NOT NULL DEFAULT 1,
		fecha_registro DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS canciones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		titulo TEXT NOT NULL,
		artista TEXT NOT NULL,
		album TEXT,
		duracion INTEGER NOT NULL,
		anio INTEGER,
		genero TEXT,
		fecha_creacion DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS favoritos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		id_usuario INTEGER NOT NULL,
		id_cancion INTEGER NOT NULL,
		fecha_marcado DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (id_usuario, id_cancion),
		FOREIGN KEY (id_usuario) REFERENCES usuarios(id) ON DELETE CASCADE,
		FOREIGN KEY (id_cancion) REFERENCES canciones(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_usuarios_nombre ON usuarios(nombre);
	CREATE INDEX IF NOT EXISTS idx_canciones_titulo ON canciones(titulo);
	CREATE INDEX IF NOT EXISTS idx_canciones_artista ON canciones(artista);
	CREATE INDEX IF NOT EXISTS idx_canciones_genero ON canciones(genero);
	CREATE INDEX IF NOT EXISTS idx_favoritos_usuario ON favoritos(id_usuario);
	CREATE INDEX IF NOT EXISTS idx_favoritos_cancion ON favoritos(id_cancion);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// mapConstraintErr translates SQLite constraint violations into the
// storage sentinel errors.
func mapConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "usuarios.correo"):
		return storage.ErrDuplicateEmail
	case strings.Contains(msg, "favoritos.id_usuario") || strings.Contains(msg, "favoritos.id_cancion"):
		return storage.ErrDuplicateFavorite
	default:
		return err
	}
}
