package identity

import (
	"context"
	"database/sql"

	"github.com/HosMercury/auth-login/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore is the canonical identity store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ByUsername(
	ctx context.Context,
	username string,
) (*Identity, error) {

	var ident Identity

	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, display_name, password_hash, hash_version
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username).Scan(
		&ident.ID,
		&ident.Username,
		&ident.DisplayName,
		&ident.CredentialSecret,
		&ident.HashVersion,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ident, nil
}

func (s *PostgresStore) ByID(
	ctx context.Context,
	id uuid.UUID,
) (*Identity, error) {

	var ident Identity

	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, display_name, password_hash, hash_version
		FROM users
		WHERE id = $1
	`, id).Scan(
		&ident.ID,
		&ident.Username,
		&ident.DisplayName,
		&ident.CredentialSecret,
		&ident.HashVersion,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ident, nil
}

func (s *PostgresStore) Create(
	ctx context.Context,
	username string,
	displayName string,
	secret string,
	hashVersion string,
) (*Identity, error) {

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, display_name, password_hash, hash_version)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, displayName, secret, hashVersion).Scan(&id)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return &Identity{
		ID:               id,
		Username:         username,
		DisplayName:      displayName,
		CredentialSecret: secret,
		HashVersion:      hashVersion,
	}, nil
}

func (s *PostgresStore) SetPassword(
	ctx context.Context,
	id uuid.UUID,
	secret string,
	hashVersion string,
) error {

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, hash_version = $3, updated_at = NOW()
		WHERE id = $1
	`, id, secret, hashVersion)

	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
