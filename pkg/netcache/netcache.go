// Package netcache is a CLI-level, content-addressed cache of parsed
// Network values, backed by BadgerDB. It sits outside the synchronous
// core (§5: "the core is pure per call"). Entries are keyed by a hash of
// an already-parsed Network's JSON encoding, so a lookup needs the network
// parsed first; a hit returns the stored copy.
package netcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Cache wraps a BadgerDB instance storing one JSON-encoded Network per
// content hash.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) a Badger-backed cache at dataDir. Pass ""
// for an in-memory cache, useful for tests and one-shot CLI runs that
// don't want to leave files behind.
func Open(dataDir string) (*Cache, error) {
	opts := badger.DefaultOptions(dataDir)
	opts.Logger = nil // the core's own logx handles CLI-visible logging
	if dataDir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening network cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying BadgerDB handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// HashNetwork computes the cache key for a Network: a sha256 digest of
// its JSON encoding. Element and relation order matters — a
// reordered-but-equivalent network hashes differently.
func HashNetwork(network model.Network) (string, error) {
	data, err := json.Marshal(network)
	if err != nil {
		return "", fmt.Errorf("hashing network: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get looks up a previously cached Network by its content hash.
func (c *Cache) Get(hash string) (model.Network, bool, error) {
	var network model.Network
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(hash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &network)
		})
	})
	if err == badger.ErrKeyNotFound {
		return model.Network{}, false, nil
	}
	if err != nil {
		return model.Network{}, false, err
	}
	return network, true, nil
}

// Put stores network under its own content hash, returning the hash
// used so the caller can look it up again.
func (c *Cache) Put(network model.Network) (string, error) {
	hash, err := HashNetwork(network)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(network)
	if err != nil {
		return "", fmt.Errorf("encoding network for cache: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(hash), data)
	})
	if err != nil {
		return "", fmt.Errorf("writing network to cache: %w", err)
	}
	return hash, nil
}
