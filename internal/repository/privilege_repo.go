package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightseed/internal/domain"
	"github.com/Domenick1991/flightseed/internal/storage"
)

type PrivilegeRepository interface {
	Create(ctx context.Context, privilege *domain.Privilege) error
	GetByUsername(ctx context.Context, username string) (*domain.Privilege, error)
	Count(ctx context.Context) (int, error)
}

type SQLPrivilegeRepository struct {
	db DBTX
}

func NewPrivilegeRepository(db DBTX) PrivilegeRepository {
	return &SQLPrivilegeRepository{db: db}
}

func (r *SQLPrivilegeRepository) Create(ctx context.Context, privilege *domain.Privilege) error {
	if privilege.Status == "" {
		privilege.Status = domain.PrivilegeStatusBronze
	}
	err := r.db.QueryRowContext(ctx, `INSERT INTO privilege (username, status, balance) VALUES ($1, $2, $3) RETURNING id`,
		privilege.Username, privilege.Status, privilege.Balance).Scan(&privilege.ID)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("privilege %q: %w", privilege.Username, domain.ErrDuplicate)
	}
	return err
}

func (r *SQLPrivilegeRepository) GetByUsername(ctx context.Context, username string) (*domain.Privilege, error) {
	var p domain.Privilege
	err := r.db.QueryRowContext(ctx, `SELECT id, username, status, balance FROM privilege WHERE username = $1`, username).
		Scan(&p.ID, &p.Username, &p.Status, &p.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("privilege %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLPrivilegeRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "privilege")
}

var _ PrivilegeRepository = (*SQLPrivilegeRepository)(nil)
