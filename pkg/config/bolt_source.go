package config

import (
	"time"

	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

var configBucket = []byte("config")

// BoltSource persists settings in a bbolt database, one key per entry with
// YAML-encoded values. Bolt files are single-process; there is nothing to
// watch, so external changes only appear on the next Load.
type BoltSource struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string) (*BoltSource, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(configBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltSource{db: db}, nil
}

// Close closes the database.
func (s *BoltSource) Close() error {
	return s.db.Close()
}

func (s *BoltSource) Load() (map[string]any, error) {
	values := map[string]any{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(configBucket)
		return b.ForEach(func(k, v []byte) error {
			var decoded any
			if err := yaml.Unmarshal(v, &decoded); err != nil {
				return err
			}
			values[string(k)] = decoded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (s *BoltSource) Store(values map[string]any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(configBucket)
		for key, value := range values {
			encoded, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(key), encoded); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltSource) Watch(func()) (func(), error) {
	return nil, nil
}
