package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("storage: not found")

const localKeyPrefix = "local:"

// LocalStore is a namespaced JSON key-value store
type LocalStore struct {
	db *badger.DB
}

// NewLocalStore creates a LocalStore over db
func NewLocalStore(db *badger.DB) *LocalStore {
	return &LocalStore{db: db}
}

func localKey(namespace, key string) []byte {
	return []byte(localKeyPrefix + namespace + ":" + key)
}

// Put stores v as JSON under namespace/key
func (s *LocalStore) Put(ctx context.Context, namespace, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", namespace, key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(localKey(namespace, key), data)
	})
}

// Get decodes the value under namespace/key into v
func (s *LocalStore) Get(ctx context.Context, namespace, key string, v interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(localKey(namespace, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", namespace, key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// Delete removes namespace/key; missing keys are not an error
func (s *LocalStore) Delete(ctx context.Context, namespace, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(localKey(namespace, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Keys lists the keys of a namespace that start with prefix
func (s *LocalStore) Keys(ctx context.Context, namespace, prefix string) ([]string, error) {
	var keys []string
	full := localKey(namespace, prefix)
	strip := len(localKey(namespace, ""))

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(full); it.ValidForPrefix(full); it.Next() {
			keys = append(keys, string(it.Item().Key()[strip:]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	return keys, nil
}
