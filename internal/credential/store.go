package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

var (
	ErrNotFound  = errors.New("credential not found")
	ErrDuplicate = errors.New("credential already exists")
	ErrDecrypt   = errors.New("failed to decrypt credential store (wrong password?)")
)

type storeFile struct {
	Salt []byte `json:"salt"`
	Data []byte `json:"data"`
}

// FileStore implements Provider with an AES-256-GCM encrypted file.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	key      []byte
	salt     []byte
	profiles map[string]Profile
}

// NewFileStore opens the store at path, creating it with a fresh salt when
// the file does not exist yet.
func NewFileStore(path string, password []byte) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		profiles: make(map[string]Profile),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		salt, err := newSalt()
		if err != nil {
			return nil, err
		}
		s.salt = salt
		s.key = deriveKey(password, salt)
		return s, s.save()
	}

	var sf storeFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("corrupt credential store: %w", err)
	}
	s.salt = sf.Salt
	s.key = deriveKey(password, sf.Salt)

	plaintext, err := open(s.key, sf.Data)
	if err != nil {
		return nil, ErrDecrypt
	}
	if err := json.Unmarshal(plaintext, &s.profiles); err != nil {
		return nil, fmt.Errorf("corrupt credential data: %w", err)
	}
	return s, nil
}

func (s *FileStore) save() error {
	plaintext, err := json.Marshal(s.profiles)
	if err != nil {
		return err
	}
	encrypted, err := seal(s.key, plaintext)
	if err != nil {
		return err
	}
	data, err := json.Marshal(storeFile{Salt: s.salt, Data: encrypted})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// List returns summaries of all stored profiles sorted by name.
func (s *FileStore) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Summarize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the named profile, or ErrNotFound.
func (s *FileStore) Get(name string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Add stores a new profile.
func (s *FileStore) Add(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.Name]; exists {
		return ErrDuplicate
	}
	s.profiles[p.Name] = p
	return s.save()
}

// Remove deletes the named profile.
func (s *FileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[name]; !exists {
		return ErrNotFound
	}
	delete(s.profiles, name)
	return s.save()
}
