package kv

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"plstrack/pkg/logger"
)

// Pebble is the production Store backed by a Pebble database.
type Pebble struct {
	db   *pebble.DB
	path string
}

// Open opens (or creates) a Pebble database at the given path.
func Open(path string) (*Pebble, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("pebble_opened", "path", path)
	return &Pebble{db: db, path: path}, nil
}

// Path returns the on-disk location of the database.
func (p *Pebble) Path() string { return p.path }

func (p *Pebble) Get(key string) (string, bool, error) {
	if p.db == nil {
		return "", false, fmt.Errorf("pebble not opened; call kv.Open first")
	}
	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", false, nil
		}
		logger.Error("get_key_failed", "key", key, "error", err)
		return "", false, err
	}
	if closer != nil {
		defer closer.Close()
	}
	out := string(v)
	logger.Debug("get_key_ok", "key", key, "len", len(out))
	return out, true, nil
}

func (p *Pebble) Set(key, value string) error {
	if p.db == nil {
		return fmt.Errorf("pebble not opened; call kv.Open first")
	}
	if err := p.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		logger.Error("save_key_failed", "key", key, "error", err)
		return err
	}
	logger.Debug("save_key_ok", "key", key, "len", len(value))
	return nil
}

func (p *Pebble) Delete(key string) error {
	if p.db == nil {
		return fmt.Errorf("pebble not opened; call kv.Open first")
	}
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		logger.Error("delete_key_failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (p *Pebble) Keys(prefix string) ([]string, error) {
	if p.db == nil {
		return nil, fmt.Errorf("pebble not opened; call kv.Open first")
	}
	iter, err := p.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	if prefix == "" {
		for iter.First(); iter.Valid(); iter.Next() {
			k := append([]byte(nil), iter.Key()...)
			out = append(out, string(k))
		}
		return out, iter.Error()
	}
	pfx := []byte(prefix)
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		out = append(out, string(k))
	}
	return out, iter.Error()
}

func (p *Pebble) Close() error {
	if p.db == nil {
		return nil
	}
	if err := p.db.Close(); err != nil {
		return err
	}
	p.db = nil
	logger.Info("pebble_closed")
	return nil
}
