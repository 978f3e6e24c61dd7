package seeding

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightseed/internal/domain"
	"github.com/Domenick1991/flightseed/internal/repository"
	"github.com/Domenick1991/flightseed/internal/storage"
)

// Step is one insert applied inside its target's transaction.
type Step interface {
	Describe() string
	Apply(ctx context.Context, db repository.DBTX) error
}

// Target is a database and the steps to apply to it, in order.
type Target struct {
	Database string
	Steps    []Step
}

type Plan []Target

type TargetDescription struct {
	Database string   `json:"database"`
	Steps    []string `json:"steps"`
}

func (p Plan) Describe() []TargetDescription {
	out := make([]TargetDescription, 0, len(p))
	for _, t := range p {
		steps := make([]string, 0, len(t.Steps))
		for _, s := range t.Steps {
			steps = append(steps, s.Describe())
		}
		out = append(out, TargetDescription{Database: t.Database, Steps: steps})
	}
	return out
}

// BuildPlan orders the fixtures as tickets, flights, privileges. Within flights
// every airport is inserted before any flight that looks it up.
func BuildPlan(f Fixtures) (Plan, error) {
	flights := Target{Database: storage.Flights}
	for _, a := range f.Airports {
		flights.Steps = append(flights.Steps, AirportStep{Airport: domain.Airport{Name: a.Name, City: a.City, Country: a.Country}})
	}
	for _, fl := range f.Flights {
		departure, err := fl.Departure()
		if err != nil {
			return nil, fmt.Errorf("%w: flight %s: %v", ErrInvalidFixtures, fl.FlightNumber, err)
		}
		flights.Steps = append(flights.Steps, FlightStep{
			Flight:      domain.Flight{FlightNumber: fl.FlightNumber, Datetime: departure, Price: fl.Price},
			FromAirport: fl.FromAirport,
			ToAirport:   fl.ToAirport,
		})
	}

	privileges := Target{Database: storage.Privileges}
	for _, p := range f.Privileges {
		privileges.Steps = append(privileges.Steps, PrivilegeStep{
			Privilege: domain.Privilege{Username: p.Username, Status: p.Status, Balance: p.Balance},
		})
	}

	return Plan{{Database: storage.Tickets}, flights, privileges}, nil
}

type AirportStep struct {
	Airport domain.Airport
}

func (s AirportStep) Describe() string {
	return fmt.Sprintf("insert airport %q", s.Airport.Name)
}

func (s AirportStep) Apply(ctx context.Context, db repository.DBTX) error {
	a := s.Airport
	return repository.NewAirportRepository(db).Create(ctx, &a)
}

type FlightStep struct {
	Flight      domain.Flight
	FromAirport string
	ToAirport   string
}

func (s FlightStep) Describe() string {
	return fmt.Sprintf("insert flight %s (%s -> %s)", s.Flight.FlightNumber, s.FromAirport, s.ToAirport)
}

func (s FlightStep) Apply(ctx context.Context, db repository.DBTX) error {
	f := s.Flight
	return repository.NewFlightRepository(db).Create(ctx, &f, s.FromAirport, s.ToAirport)
}

type PrivilegeStep struct {
	Privilege domain.Privilege
}

func (s PrivilegeStep) Describe() string {
	return fmt.Sprintf("insert privilege %q", s.Privilege.Username)
}

func (s PrivilegeStep) Apply(ctx context.Context, db repository.DBTX) error {
	p := s.Privilege
	return repository.NewPrivilegeRepository(db).Create(ctx, &p)
}
