package client

import (
	Errors "errors"
	"io/fs"
	"sync"

	"github.com/99designs/keyring"
)

// Keyring slots used for session persistence
const (
	SlotUsername = "username"
	SlotPassword = "password"
)

// Keyring is the device's secure key-value store
type Keyring interface {
	Get(slot string) (string, bool, error)
	Set(slot string, value string) error
	Delete(slot string) error
}

// KeyringService names the entries the SDK keeps in the platform keychain
const KeyringService = "robosnap"

// SystemKeyring keeps the slots in the platform keychain, or in an encrypted
// file where the platform has none
type SystemKeyring struct {
	ring keyring.Keyring
}

// OpenKeyring opens the first available backend, restricted to backends when any
// are given. dir and passphrase configure the encrypted file backend.
func OpenKeyring(dir string, passphrase string, backends ...keyring.BackendType) (*SystemKeyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              KeyringService,
		AllowedBackends:          backends,
		KeychainTrustApplication: true,
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(passphrase),
	})
	if err != nil {
		return nil, err
	}
	return &SystemKeyring{ring: ring}, nil
}

func (k *SystemKeyring) Get(slot string) (string, bool, error) {
	item, err := k.ring.Get(slot)
	if Errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(item.Data), true, nil
}

func (k *SystemKeyring) Set(slot string, value string) error {
	return k.ring.Set(keyring.Item{
		Key:   slot,
		Data:  []byte(value),
		Label: KeyringService + " " + slot,
	})
}

// Delete removes slot; a missing slot is not an error
func (k *SystemKeyring) Delete(slot string) error {
	err := k.ring.Remove(slot)
	if Errors.Is(err, keyring.ErrKeyNotFound) || Errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryKeyring is a Keyring that forgets everything with the process
type MemoryKeyring struct {
	slots map[string]string
	mu    sync.Mutex
}

func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{slots: make(map[string]string)}
}

func (k *MemoryKeyring) Get(slot string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	value, ok := k.slots[slot]
	return value, ok, nil
}

func (k *MemoryKeyring) Set(slot string, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.slots[slot] = value
	return nil
}

func (k *MemoryKeyring) Delete(slot string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.slots, slot)
	return nil
}
