package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightseed/internal/domain"
)

type AirportRepository interface {
	Create(ctx context.Context, airport *domain.Airport) error
	GetIDByName(ctx context.Context, name string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	ListByName(ctx context.Context, name string) ([]domain.Airport, error)
	Count(ctx context.Context) (int, error)
}

type SQLAirportRepository struct {
	db DBTX
}

func NewAirportRepository(db DBTX) AirportRepository {
	return &SQLAirportRepository{db: db}
}

func (r *SQLAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	return r.db.QueryRowContext(ctx, `INSERT INTO airport (name, city, country) VALUES ($1, $2, $3) RETURNING id`,
		airport.Name, airport.City, airport.Country).Scan(&airport.ID)
}

// GetIDByName resolves an airport by its natural key. Duplicated names resolve to the oldest row.
func (r *SQLAirportRepository) GetIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM airport WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", domain.ErrAirportNotFound, name)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.QueryRowContext(ctx, `SELECT id, name, city, country FROM airport WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.City, &a.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("airport %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLAirportRepository) ListByName(ctx context.Context, name string) ([]domain.Airport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, city, country FROM airport WHERE name = $1 ORDER BY id`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.City, &a.Country); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *SQLAirportRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "airport")
}

var _ AirportRepository = (*SQLAirportRepository)(nil)
