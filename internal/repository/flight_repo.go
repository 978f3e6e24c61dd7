package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightseed/internal/domain"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight, fromAirport, toAirport string) error
	ListByNumber(ctx context.Context, flightNumber string) ([]domain.Flight, error)
	Count(ctx context.Context) (int, error)
}

type SQLFlightRepository struct {
	db       DBTX
	airports AirportRepository
}

func NewFlightRepository(db DBTX) FlightRepository {
	return &SQLFlightRepository{db: db, airports: NewAirportRepository(db)}
}

// Create resolves both airports by name on the same handle and inserts the flight.
// It fails with domain.ErrAirportNotFound if either airport has not been inserted yet.
func (r *SQLFlightRepository) Create(ctx context.Context, flight *domain.Flight, fromAirport, toAirport string) error {
	fromID, err := r.airports.GetIDByName(ctx, fromAirport)
	if err != nil {
		return fmt.Errorf("resolve from airport: %w", err)
	}
	toID, err := r.airports.GetIDByName(ctx, toAirport)
	if err != nil {
		return fmt.Errorf("resolve to airport: %w", err)
	}

	flight.FromAirportID = fromID
	flight.ToAirportID = toID
	return r.db.QueryRowContext(ctx, `INSERT INTO flight (flight_number, datetime, from_airport_id, to_airport_id, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, flight.FlightNumber, flight.Datetime, flight.FromAirportID, flight.ToAirportID, flight.Price).
		Scan(&flight.ID)
}

func (r *SQLFlightRepository) ListByNumber(ctx context.Context, flightNumber string) ([]domain.Flight, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, flight_number, datetime, from_airport_id, to_airport_id, price FROM flight WHERE flight_number = $1 ORDER BY id`, flightNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.Datetime, &f.FromAirportID, &f.ToAirportID, &f.Price); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *SQLFlightRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "flight")
}

var _ FlightRepository = (*SQLFlightRepository)(nil)
