package seeding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightseed/internal/domain"
	"github.com/Domenick1991/flightseed/internal/kafka"
	"github.com/Domenick1991/flightseed/internal/repository"
	"github.com/Domenick1991/flightseed/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSeedInProgress = errors.New("seed run already in progress")

type SeedUseCase interface {
	Fixtures() Fixtures
	Plan() (Plan, error)
	Run(ctx context.Context) (*Report, error)
	Verify(ctx context.Context) (*VerifyReport, error)
}

// Databases switches between the seeded databases by name.
type Databases interface {
	DB(ctx context.Context, name string) (*sql.DB, error)
	EnsureSchema(ctx context.Context, name string) error
}

type Locker interface {
	AcquireSeedLock(ctx context.Context, owner string, ttl time.Duration) (bool, error)
	ReleaseSeedLock(ctx context.Context, owner string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SeedingService struct {
	dbs          Databases
	fixtures     Fixtures
	locker       Locker
	lockTTL      time.Duration
	producer     Producer
	topic        string
	createSchema bool
	logger       *zap.SugaredLogger
}

type SeedingServiceOption func(*SeedingService)

func WithLogger(logger *zap.SugaredLogger) SeedingServiceOption {
	return func(s *SeedingService) {
		s.logger = logger
	}
}

func WithLocker(locker Locker, ttl time.Duration) SeedingServiceOption {
	return func(s *SeedingService) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

func WithProducer(producer Producer, topic string) SeedingServiceOption {
	return func(s *SeedingService) {
		s.producer = producer
		s.topic = topic
	}
}

// WithSchemaBootstrap creates missing fixture tables before each target is seeded.
func WithSchemaBootstrap() SeedingServiceOption {
	return func(s *SeedingService) {
		s.createSchema = true
	}
}

func NewSeedingService(dbs Databases, fixtures Fixtures, opts ...SeedingServiceOption) *SeedingService {
	service := &SeedingService{
		dbs:      dbs,
		fixtures: fixtures,
		lockTTL:  time.Minute,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Targets    []TargetReport `json:"targets"`
}

func (r *Report) Steps() int {
	n := 0
	for _, t := range r.Targets {
		n += t.Steps
	}
	return n
}

type TargetReport struct {
	Database string        `json:"database"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
}

func (s *SeedingService) Fixtures() Fixtures {
	return s.fixtures
}

func (s *SeedingService) Plan() (Plan, error) {
	return BuildPlan(s.fixtures)
}

func (s *SeedingService) Run(ctx context.Context) (*Report, error) {
	plan, err := s.Plan()
	if err != nil {
		return nil, err
	}
	return s.RunPlan(ctx, plan)
}

// RunPlan applies the targets in order, each in its own transaction. The first
// failing step rolls back its target and stops the run; targets committed
// before it stay committed.
func (s *SeedingService) RunPlan(ctx context.Context, plan Plan) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	log := s.logger.With("run_id", report.RunID)

	if s.locker != nil {
		ok, err := s.locker.AcquireSeedLock(ctx, report.RunID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire seed lock: %w", err)
		}
		if !ok {
			return nil, ErrSeedInProgress
		}
		defer func() {
			if err := s.locker.ReleaseSeedLock(context.WithoutCancel(ctx), report.RunID); err != nil {
				log.Warnw("failed to release seed lock", "error", err)
			}
		}()
	}

	log.Infow("seed run started", "targets", len(plan))
	for _, target := range plan {
		result, err := s.applyTarget(ctx, target)
		if err != nil {
			log.Errorw("seed run failed", "database", target.Database, "error", err)
			return nil, err
		}
		log.Infow("database seeded", "database", result.Database, "steps", result.Steps, "duration", result.Duration)
		report.Targets = append(report.Targets, result)
	}
	report.FinishedAt = time.Now().UTC()

	if err := s.publish(ctx, report); err != nil {
		log.Warnw("failed to publish seed event", "error", err)
	}
	log.Infow("seed run finished", "steps", report.Steps())
	return report, nil
}

func (s *SeedingService) applyTarget(ctx context.Context, target Target) (TargetReport, error) {
	started := time.Now()

	db, err := s.dbs.DB(ctx, target.Database)
	if err != nil {
		return TargetReport{}, fmt.Errorf("switch to %s: %w", target.Database, err)
	}
	if s.createSchema {
		if err := s.dbs.EnsureSchema(ctx, target.Database); err != nil {
			return TargetReport{}, fmt.Errorf("%s: %w", target.Database, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return TargetReport{}, fmt.Errorf("%s: begin: %w", target.Database, err)
	}
	defer tx.Rollback()

	for i, step := range target.Steps {
		if err := step.Apply(ctx, tx); err != nil {
			return TargetReport{}, fmt.Errorf("%s: step %d (%s): %w", target.Database, i+1, step.Describe(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return TargetReport{}, fmt.Errorf("%s: commit: %w", target.Database, err)
	}

	return TargetReport{
		Database: target.Database,
		Steps:    len(target.Steps),
		Duration: time.Since(started),
	}, nil
}

func (s *SeedingService) publish(ctx context.Context, report *Report) error {
	if s.producer == nil || s.topic == "" {
		return nil
	}
	databases := make([]string, 0, len(report.Targets))
	for _, t := range report.Targets {
		databases = append(databases, t.Database)
	}
	event := kafka.SeedEvent{
		Type:       kafka.EventSeedCompleted,
		RunID:      report.RunID,
		Databases:  databases,
		Steps:      report.Steps(),
		FinishedAt: report.FinishedAt,
	}
	return s.producer.Publish(ctx, s.topic, report.RunID, event)
}

type VerifyReport struct {
	OK       bool           `json:"ok"`
	Problems []string       `json:"problems"`
	Counts   map[string]int `json:"counts"`
}

func (r *VerifyReport) problemf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Verify checks that every fixture row is present and linked as configured.
// It never writes rows. A database whose tables are missing is reported as a
// problem; with schema bootstrap enabled the tables are created first.
func (s *SeedingService) Verify(ctx context.Context) (*VerifyReport, error) {
	report := &VerifyReport{Problems: []string{}, Counts: map[string]int{}}

	checks := []struct {
		database string
		check    func(context.Context, *sql.DB, *VerifyReport) error
	}{
		{storage.Tickets, s.verifyTickets},
		{storage.Flights, s.verifyFlights},
		{storage.Privileges, s.verifyPrivileges},
	}
	for _, c := range checks {
		db, err := s.dbs.DB(ctx, c.database)
		if err != nil {
			return nil, fmt.Errorf("switch to %s: %w", c.database, err)
		}
		if s.createSchema {
			if err := s.dbs.EnsureSchema(ctx, c.database); err != nil {
				return nil, fmt.Errorf("%s: %w", c.database, err)
			}
		}
		if err := c.check(ctx, db, report); err != nil {
			if storage.IsMissingTable(err) {
				report.problemf("%s: missing table: %v", c.database, err)
				continue
			}
			return nil, err
		}
	}

	report.OK = len(report.Problems) == 0
	return report, nil
}

func (s *SeedingService) verifyTickets(ctx context.Context, db *sql.DB, report *VerifyReport) error {
	var tickets int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ticket`).Scan(&tickets); err != nil {
		return fmt.Errorf("count tickets: %w", err)
	}
	report.Counts["ticket"] = tickets
	return nil
}

func (s *SeedingService) verifyFlights(ctx context.Context, db *sql.DB, report *VerifyReport) error {
	airports := repository.NewAirportRepository(db)
	flights := repository.NewFlightRepository(db)

	for _, want := range s.fixtures.Airports {
		stored, err := airports.ListByName(ctx, want.Name)
		if err != nil {
			return fmt.Errorf("verify airport %q: %w", want.Name, err)
		}
		if len(stored) == 0 {
			report.problemf("airport %q is missing", want.Name)
			continue
		}
		if !containsAirport(stored, want) {
			report.problemf("airport %q: want %s, %s", want.Name, want.City, want.Country)
		}
	}

	for _, want := range s.fixtures.Flights {
		stored, err := flights.ListByNumber(ctx, want.FlightNumber)
		if err != nil {
			return fmt.Errorf("verify flight %s: %w", want.FlightNumber, err)
		}
		if len(stored) == 0 {
			report.problemf("flight %s is missing", want.FlightNumber)
			continue
		}
		matched := false
		for _, f := range stored {
			ok, err := flightMatches(ctx, airports, f, want)
			if err != nil {
				return fmt.Errorf("verify flight %s: %w", want.FlightNumber, err)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			report.problemf("flight %s: want %s -> %s at %s for %d", want.FlightNumber, want.FromAirport, want.ToAirport, want.Datetime, want.Price)
		}
	}

	n, err := airports.Count(ctx)
	if err != nil {
		return err
	}
	report.Counts["airport"] = n
	if n, err = flights.Count(ctx); err != nil {
		return err
	}
	report.Counts["flight"] = n
	return nil
}

func (s *SeedingService) verifyPrivileges(ctx context.Context, db *sql.DB, report *VerifyReport) error {
	privileges := repository.NewPrivilegeRepository(db)

	for _, want := range s.fixtures.Privileges {
		got, err := privileges.GetByUsername(ctx, want.Username)
		if errors.Is(err, domain.ErrNotFound) {
			report.problemf("privilege %q is missing", want.Username)
			continue
		}
		if err != nil {
			return fmt.Errorf("verify privilege %q: %w", want.Username, err)
		}
		if got.Balance != want.Balance {
			report.problemf("privilege %q: balance %d, want %d", want.Username, got.Balance, want.Balance)
		}
		status := want.Status
		if status == "" {
			status = domain.PrivilegeStatusBronze
		}
		if got.Status != status {
			report.problemf("privilege %q: status %s, want %s", want.Username, got.Status, status)
		}
	}

	n, err := privileges.Count(ctx)
	if err != nil {
		return err
	}
	report.Counts["privilege"] = n
	return nil
}

func containsAirport(stored []domain.Airport, want AirportFixture) bool {
	for _, a := range stored {
		if a.City == want.City && a.Country == want.Country {
			return true
		}
	}
	return false
}

func flightMatches(ctx context.Context, airports repository.AirportRepository, f domain.Flight, want FlightFixture) (bool, error) {
	departure, err := want.Departure()
	if err != nil {
		return false, fmt.Errorf("parse datetime %q: %w", want.Datetime, err)
	}
	if f.Price != want.Price || !f.Datetime.Equal(departure) {
		return false, nil
	}
	from, err := airports.GetByID(ctx, f.FromAirportID)
	if err != nil {
		return false, err
	}
	to, err := airports.GetByID(ctx, f.ToAirportID)
	if err != nil {
		return false, err
	}
	return from.Name == want.FromAirport && to.Name == want.ToAirport, nil
}

var _ SeedUseCase = (*SeedingService)(nil)
