package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"lintang/trafficsim/pkg/config"
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
	"lintang/trafficsim/pkg/roadmap"
)

var (
	configPath = flag.String("config", "", "yaml config file, empty runs the default demo network")
	seed       = flag.Uint64("seed", 0, "random seed, overrides simulation.seed when not 0")
	walkHops   = flag.Int("walk", -1, "after routing, walk every car for this many hops, overrides simulation.walk_hops")
	debug      = flag.Bool("debug", false, "debug logging")

	log = logrus.WithField("module", "simulate")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *walkHops >= 0 {
		cfg.Simulation.WalkHops = *walkHops
	}

	m, err := roadmap.FromConfig(cfg.Network, rand.New(rand.NewSource(cfg.Simulation.Seed)))
	if err != nil {
		log.Fatal(err)
	}

	intersections := m.Intersections()
	start, end := intersections[0], intersections[len(intersections)-1]
	fmt.Printf("paths %s -> %s before any car is routed\n", start, end)
	for _, strategy := range routingalgorithm.Strategies {
		route, err := m.Route(start, end, strategy)
		if err != nil {
			fmt.Printf("  %-22s %v\n", strategy, err)
			continue
		}
		fmt.Printf("  %-22s %v (%.2f)\n", strategy, route.Intersections, route.Weight)
	}

	fmt.Println("\nrouting cars")
	for _, res := range m.RouteAllCars() {
		if res.Err != nil {
			fmt.Printf("  car %d (%s, %s): %v\n", res.Car.ID(), res.Car.Kind(), res.Car.Strategy(), res.Err)
			continue
		}
		fmt.Printf("  car %d (%s, %s): %v\n", res.Car.ID(), res.Car.Kind(), res.Car.Strategy(), res.Path)
	}

	if cfg.Simulation.WalkHops > 0 {
		fmt.Printf("\nwalking cars for at most %d hops\n", cfg.Simulation.WalkHops)
		for _, car := range m.Cars() {
			visited, err := m.WalkCar(car, cfg.Simulation.WalkHops)
			if err != nil {
				log.Errorf("walking car %d: %v", car.ID(), err)
				continue
			}
			fmt.Printf("  car %d (%s): %v\n", car.ID(), car.Kind(), visited)
		}
	}

	fmt.Println()
	printRoads(m.Roads())
}

func printRoads(roads []*datastructure.Road) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "road\tfrom\tto\tlimit\tlength\ttraffic\tspeed\tcost")
	for _, road := range roads {
		from, to := road.ConnectedIntersections()
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.2f\t%d\t%.0f\t%.2f\n", road.ID, from, to, road.SpeedLimit,
			road.Length, road.Traffic(), road.CurrentSpeed(), road.CurrentCost())
	}
	w.Flush()
}
