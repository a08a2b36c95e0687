package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const roleKeyPrefix = "role/"

// BadgerStore keeps role data in an embedded badger database, one JSON
// value per role under "role/<name>".
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a store at path. An empty path opens an
// in-memory store.
func OpenBadger(path string) (*BadgerStore, error) {
	var opts badger.Options
	if strings.TrimSpace(path) == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("dataset: create store dir %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil).WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("dataset: open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the database.
func (b *BadgerStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Put replaces one role's data.
func (b *BadgerStore) Put(role string, rd RoleData) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("dataset: blank role name")
	}
	clean, err := rd.Normalize()
	if err != nil {
		return fmt.Errorf("dataset: role %s: %w", role, err)
	}
	value, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("dataset: encode role %s: %w", role, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(roleKeyPrefix+role), value)
	})
}

// Import writes every role of ds in a single transaction and returns the
// number of roles written.
func (b *BadgerStore) Import(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, nil
	}
	encoded := make(map[string][]byte, len(ds.Roles))
	for role, rd := range ds.Roles {
		value, err := json.Marshal(rd)
		if err != nil {
			return 0, fmt.Errorf("dataset: encode role %s: %w", role, err)
		}
		encoded[role] = value
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		for role, value := range encoded {
			if err := txn.Set([]byte(roleKeyPrefix+role), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("dataset: import: %w", err)
	}
	return len(encoded), nil
}

// Role returns the data stored for role.
func (b *BadgerStore) Role(role string) (RoleData, error) {
	var rd RoleData
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(roleKeyPrefix + role))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(value, &rd)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return RoleData{}, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if err != nil {
		return RoleData{}, fmt.Errorf("dataset: read role %s: %w", role, err)
	}
	return rd, nil
}

// RoleNames lists stored roles in key order.
func (b *BadgerStore) RoleNames() ([]string, error) {
	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(roleKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().KeyCopy(nil))
			names = append(names, strings.TrimPrefix(key, roleKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: list roles: %w", err)
	}
	return names, nil
}
