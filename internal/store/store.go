// Package store persists the document pair the sync tool manages: the
// raw text and the structured tree, side by side in a local bbolt file.
// These are the two persisted representations the bridge's bootstrap
// reconciles when the tool starts.
package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/dshills/treetext/internal/doctree"
)

var (
	bucketDoc = []byte("document")
	keyText   = []byte("text")
	keyTree   = []byte("tree")
)

// Store is a bbolt-backed document pair store.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDoc)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadPair returns the persisted text and tree. Absent entries come back
// as "" and nil; neither is an error.
func (s *Store) LoadPair() (string, *doctree.Node, error) {
	var text string
	var treeJSON []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDoc)
		if v := b.Get(keyText); v != nil {
			text = string(v)
		}
		if v := b.Get(keyTree); v != nil {
			treeJSON = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("load pair: %w", err)
	}
	if treeJSON == nil {
		return text, nil, nil
	}
	tree, err := doctree.DecodeJSON(string(treeJSON))
	if err != nil {
		return text, nil, fmt.Errorf("load pair: %w", err)
	}
	return text, tree, nil
}

// SavePair persists both representations in one transaction. A nil tree
// clears the structured side.
func (s *Store) SavePair(text string, tree *doctree.Node) error {
	var treeJSON string
	if tree != nil {
		var err error
		treeJSON, err = doctree.EncodeJSON(tree)
		if err != nil {
			return fmt.Errorf("save pair: %w", err)
		}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDoc)
		if err := b.Put(keyText, []byte(text)); err != nil {
			return err
		}
		if tree == nil {
			return b.Delete(keyTree)
		}
		return b.Put(keyTree, []byte(treeJSON))
	})
	if err != nil {
		return fmt.Errorf("save pair: %w", err)
	}
	return nil
}

// TreeJSON returns the persisted tree's JSON form, or "" when absent.
func (s *Store) TreeJSON() (string, error) {
	var out string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketDoc).Get(keyTree); v != nil {
			out = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("tree json: %w", err)
	}
	return out, nil
}
