package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	objectKeyPrefix  = "object:"
	objectMetaPrefix = "objectmeta:"
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ObjectStore stores blobs by bucket and key and hands out public URLs
type ObjectStore struct {
	db      *badger.DB
	baseURL string
}

// NewObjectStore creates an ObjectStore whose public URLs start with baseURL
func NewObjectStore(db *badger.DB, baseURL string) *ObjectStore {
	return &ObjectStore{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

func objectKey(bucket, key string) []byte {
	return []byte(objectKeyPrefix + bucket + "/" + key)
}

func objectMetaKey(bucket, key string) []byte {
	return []byte(objectMetaPrefix + bucket + "/" + key)
}

// Upload stores data and returns its public URL
func (s *ObjectStore) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("upload: bucket and key are required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	meta, err := json.Marshal(ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		Size:        len(data),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal object info: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(objectKey(bucket, key), data); err != nil {
			return fmt.Errorf("set object: %w", err)
		}
		return txn.Set(objectMetaKey(bucket, key), meta)
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return s.PublicURL(bucket, key), nil
}

// Download returns an object's bytes and info
func (s *ObjectStore) Download(ctx context.Context, bucket, key string) ([]byte, *ObjectInfo, error) {
	var data []byte
	var info ObjectInfo

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(objectMetaKey(bucket, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &info) }); err != nil {
			return err
		}

		item, err = txn.Get(objectKey(bucket, key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return data, &info, nil
}

// PublicURL is the URL the storage handler serves bucket/key at
func (s *ObjectStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, key)
}
