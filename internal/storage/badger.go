// Package storage keeps browser-style local storage and object storage on an
// embedded BadgerDB.
package storage

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Options configures the badger database
type Options struct {
	Path     string
	InMemory bool
}

// Open opens the badger database backing both stores
func Open(opts Options) (*badger.DB, error) {
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}
