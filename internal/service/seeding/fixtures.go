package seeding

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Domenick1991/flightseed/internal/domain"
	"gopkg.in/yaml.v3"
)

// DatetimeLayout is the layout of flight datetimes in fixture files, read as UTC.
const DatetimeLayout = "2006-01-02 15:04"

var ErrInvalidFixtures = errors.New("invalid fixtures")

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Airports   []AirportFixture   `yaml:"airports" json:"airports"`
	Flights    []FlightFixture    `yaml:"flights" json:"flights"`
	Privileges []PrivilegeFixture `yaml:"privileges" json:"privileges"`
}

type AirportFixture struct {
	Name    string `yaml:"name" json:"name"`
	City    string `yaml:"city" json:"city"`
	Country string `yaml:"country" json:"country"`
}

// FlightFixture references its airports by name; ids are looked up at insert time.
type FlightFixture struct {
	FlightNumber string `yaml:"flight_number" json:"flight_number"`
	Datetime     string `yaml:"datetime" json:"datetime"`
	FromAirport  string `yaml:"from_airport" json:"from_airport"`
	ToAirport    string `yaml:"to_airport" json:"to_airport"`
	Price        int64  `yaml:"price" json:"price"`
}

func (f FlightFixture) Departure() (time.Time, error) {
	return time.Parse(DatetimeLayout, f.Datetime)
}

type PrivilegeFixture struct {
	Username string                 `yaml:"username" json:"username"`
	Status   domain.PrivilegeStatus `yaml:"status,omitempty" json:"status,omitempty"`
	Balance  int64                  `yaml:"balance" json:"balance"`
}

// DefaultFixtures returns the built-in fixture set.
func DefaultFixtures() (Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads fixtures from path, or returns the defaults when path is empty.
func LoadFixtures(path string) (Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

// Validate checks each row on its own. Flights pointing at airports absent from the
// set are accepted here and fail at insert time instead.
func (f Fixtures) Validate() error {
	var problems []string
	for i, a := range f.Airports {
		if strings.TrimSpace(a.Name) == "" {
			problems = append(problems, fmt.Sprintf("airport #%d: name is required", i+1))
		}
	}
	for i, fl := range f.Flights {
		if strings.TrimSpace(fl.FlightNumber) == "" {
			problems = append(problems, fmt.Sprintf("flight #%d: flight number is required", i+1))
		}
		if fl.Price < 0 {
			problems = append(problems, fmt.Sprintf("flight #%d: price must not be negative", i+1))
		}
		if _, err := fl.Departure(); err != nil {
			problems = append(problems, fmt.Sprintf("flight #%d: datetime %q: want layout %q", i+1, fl.Datetime, DatetimeLayout))
		}
		if fl.FromAirport == "" || fl.ToAirport == "" {
			problems = append(problems, fmt.Sprintf("flight #%d: both airports are required", i+1))
		}
	}
	for i, p := range f.Privileges {
		if strings.TrimSpace(p.Username) == "" {
			problems = append(problems, fmt.Sprintf("privilege #%d: username is required", i+1))
		}
		if p.Status != "" && !p.Status.Valid() {
			problems = append(problems, fmt.Sprintf("privilege #%d: unknown status %q", i+1, p.Status))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFixtures, strings.Join(problems, "; "))
	}
	return nil
}
