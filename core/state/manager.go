package state

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"landchain/storage"
)

// Manager provides typed read/write access to the deterministic key-value
// state. Keys are keccak-hashed string prefixes (composite keys append their
// components before hashing); values are RLP-encoded stored forms. Only exact
// key lookup and existence checks are performed, never iteration.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Database exposes the backing store, primarily so transition wrappers can
// layer an overlay underneath a fresh manager.
func (m *Manager) Database() storage.Database {
	return m.db
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

// getRLP decodes the value at key into out, reporting false when the key is
// absent.
func (m *Manager) getRLP(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(kvKey(key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", string(key), err)
	}
	return true, nil
}

func (m *Manager) putRLP(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", string(key), err)
	}
	return m.db.Put(kvKey(key), encoded)
}

func (m *Manager) deleteKey(key []byte) error {
	return m.db.Delete(kvKey(key))
}

func (m *Manager) hasKey(key []byte) (bool, error) {
	return m.db.Has(kvKey(key))
}
