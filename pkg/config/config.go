package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidNetwork = errors.New("invalid network")
)

// Config is the root of the yaml file.
type Config struct {
	Server     Server     `yaml:"server"`
	Simulation Simulation `yaml:"simulation"`
	Network    Network    `yaml:"network"`
}

type Server struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
	DBDir      string `yaml:"db_dir,omitempty"`
}

type Simulation struct {
	Seed     uint64 `yaml:"seed"`
	WalkHops int    `yaml:"walk_hops,omitempty" validate:"gte=0"`
}

// Network describes a road network. an empty network means "use the default demo network".
type Network struct {
	Name          string             `yaml:"name,omitempty"`
	Intersections []IntersectionSpec `yaml:"intersections" validate:"dive"`
	Roads         []RoadSpec         `yaml:"roads" validate:"dive"`
	Cars          []CarSpec          `yaml:"cars" validate:"dive"`
}

type IntersectionSpec struct {
	Label    string    `yaml:"label" validate:"required"`
	Position []float64 `yaml:"position,omitempty" validate:"omitempty,len=2"` // [lat, lon]
}

type RoadSpec struct {
	From       string  `yaml:"from" validate:"required"`
	To         string  `yaml:"to" validate:"required,nefield=From"`
	SpeedLimit float64 `yaml:"speed_limit" validate:"gt=0"`
	Length     float64 `yaml:"length,omitempty" validate:"gte=0"` // 0 = derive from positions
}

type CarSpec struct {
	Kind     string `yaml:"kind" validate:"required,oneof=blind greedy"`
	Start    string `yaml:"start" validate:"required"`
	End      string `yaml:"end" validate:"required"`
	Strategy string `yaml:"strategy" validate:"required,oneof=shortest cheapest fastest highest-speed-limit fewest-intersections"`
}

func Load(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config file load err: %w", err)
	}
	return Parse(file)
}

func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config file load err: %w", err)
	}
	if err := validator.New().Struct(c.Simulation); err != nil {
		return Config{}, fmt.Errorf("invalid simulation config: %w", err)
	}
	if err := c.Network.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// IsEmpty reports whether any of the three collections is missing.
func (n Network) IsEmpty() bool {
	return len(n.Intersections) == 0 || len(n.Roads) == 0 || len(n.Cars) == 0
}

func (p IntersectionSpec) HasPosition() bool {
	return len(p.Position) == 2
}

// Validate checks the references between intersections, roads and cars.
func (n Network) Validate() error {
	if err := validator.New().Struct(n); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}

	errs := make([]error, 0)

	dup := lo.FindDuplicatesBy(n.Intersections, func(in IntersectionSpec) string { return in.Label })
	for _, in := range dup {
		errs = append(errs, fmt.Errorf("duplicate intersection %q", in.Label))
	}

	byLabel := lo.KeyBy(n.Intersections, func(in IntersectionSpec) string { return in.Label })
	for _, in := range n.Intersections {
		if in.HasPosition() && (in.Position[0] < -90 || in.Position[0] > 90 || in.Position[1] < -180 || in.Position[1] > 180) {
			errs = append(errs, fmt.Errorf("intersection %q: position out of range", in.Label))
		}
	}

	for i, road := range n.Roads {
		from, okFrom := byLabel[road.From]
		to, okTo := byLabel[road.To]
		if !okFrom || !okTo {
			errs = append(errs, fmt.Errorf("road %d: unknown endpoint %s-%s", i, road.From, road.To))
			continue
		}
		if road.Length == 0 && (!from.HasPosition() || !to.HasPosition()) {
			errs = append(errs, fmt.Errorf("road %d: length is 0 and endpoints have no position", i))
		}
	}

	for i, car := range n.Cars {
		if _, ok := byLabel[car.Start]; !ok {
			errs = append(errs, fmt.Errorf("car %d: unknown start %q", i, car.Start))
		}
		if _, ok := byLabel[car.End]; !ok {
			errs = append(errs, fmt.Errorf("car %d: unknown end %q", i, car.End))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidNetwork, errors.Join(errs...))
	}
	return nil
}
