package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"lintang/trafficsim/pkg/config"
	"lintang/trafficsim/pkg/kv"
)

var (
	configPath = flag.String("config", "configs/network.yaml", "yaml config file with the network to store")
	dbDir      = flag.String("db", "", "badger directory, overrides server.db_dir")
	name       = flag.String("name", "", "store the network under this name instead of network.name")

	log = logrus.WithField("module", "preprocessing")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	log.Infof("reading network file %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Network.IsEmpty() {
		log.Fatalf("%s has no complete network to store", *configPath)
	}
	if *name != "" {
		cfg.Network.Name = *name
	}

	dir := cfg.Server.DBDir
	if *dbDir != "" {
		dir = *dbDir
	}
	if dir == "" {
		dir = "./trafficsim_db"
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	store := kv.NewNetworkStore(db)
	if err := store.SaveNetwork(context.Background(), cfg.Network); err != nil {
		log.Fatal(err)
	}

	names, err := store.ListNetworks()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("stored networks in %s: %v\n", dir, names)
}
