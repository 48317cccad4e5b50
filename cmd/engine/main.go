package main

import (
	"flag"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"lintang/trafficsim/pkg/config"
	"lintang/trafficsim/pkg/kv"
	"lintang/trafficsim/pkg/roadmap"
	"lintang/trafficsim/pkg/server/rest"
	"lintang/trafficsim/pkg/server/rest/service"
)

var (
	configPath  = flag.String("config", "", "yaml config file, empty runs the default demo network")
	listenAddr  = flag.String("listenaddr", "", "server listen address, overrides server.listen_addr")
	networkName = flag.String("network", "", "load this network from the badger store instead of the config file")
	logLevel    = flag.String("log.level", "info", "log level: trace, debug, info, warn, error, critical, off")

	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}

	log = logrus.WithField("module", "engine")
)

func main() {
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Fatalf("unknown log level %q", *logLevel)
	}

	cfg := config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":5000"
	}

	network := cfg.Network
	if *networkName != "" {
		dbDir := cfg.Server.DBDir
		if dbDir == "" {
			dbDir = "./trafficsim_db"
		}
		db, err := badger.Open(badger.DefaultOptions(filepath.Clean(dbDir)).WithLogger(nil))
		if err != nil {
			log.Fatal(err)
		}
		network, err = kv.NewNetworkStore(db).LoadNetwork(*networkName)
		db.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	roadMap, err := roadmap.FromConfig(network, rand.New(rand.NewSource(cfg.Simulation.Seed)))
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	rest.SimulationRouter(r, service.NewSimulationService(roadMap), m)

	fmt.Printf("\nserver started at %s\n", cfg.Server.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.Server.ListenAddr, r))
}
