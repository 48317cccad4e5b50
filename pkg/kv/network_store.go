package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"lintang/trafficsim/pkg/config"
)

var (
	ErrNetworkNotFound = errors.New("network not found")
)

const networkKeyPrefix = "network:"

var log = logrus.WithField("module", "kv")

// NetworkStore keeps named network descriptions in badger.
type NetworkStore struct {
	db *badger.DB
}

func NewNetworkStore(db *badger.DB) *NetworkStore {
	return &NetworkStore{db}
}

func networkKey(name string) []byte {
	return []byte(networkKeyPrefix + name)
}

func (k *NetworkStore) SaveNetwork(ctx context.Context, network config.Network) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if network.Name == "" {
		return fmt.Errorf("%w: network has no name", config.ErrInvalidNetwork)
	}

	val, err := encodeNetwork(network)
	if err != nil {
		return err
	}

	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	if err := batch.Set(networkKey(network.Name), val); err != nil {
		return err
	}
	if err := batch.Flush(); err != nil {
		log.Errorf("error saving network %q: %v", network.Name, err)
		return err
	}

	log.Infof("saving network %q done (%d bytes)", network.Name, len(val))
	return nil
}

func (k *NetworkStore) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *NetworkStore) LoadNetwork(name string) (config.Network, error) {
	val, err := k.get(networkKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return config.Network{}, fmt.Errorf("%w: %q", ErrNetworkNotFound, name)
	}
	if err != nil {
		return config.Network{}, err
	}

	return decodeNetwork(val)
}

// ListNetworks returns the stored network names in key order.
func (k *NetworkStore) ListNetworks() ([]string, error) {
	names := make([]string, 0)
	err := k.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(networkKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), networkKeyPrefix))
		}
		return nil
	})
	return names, err
}

func (k *NetworkStore) DeleteNetwork(name string) error {
	if _, err := k.get(networkKey(name)); errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %q", ErrNetworkNotFound, name)
	}
	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(networkKey(name))
	})
}
