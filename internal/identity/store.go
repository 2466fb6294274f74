package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/internal/storage"
)

var prefixAccount = []byte("acct/") // acct/<lowercase account hash> -> AccountInfo JSON

// DefaultStoreTTL bounds how long a persisted record is trusted.
const DefaultStoreTTL = 24 * time.Hour

// ErrAccountNotFound is returned when no record exists for an account hash.
var ErrAccountNotFound = errors.New("account info not found")

// Store persists account-info records so a restarted process can warm its
// cache without refetching.
type Store struct {
	db  storage.DB
	ttl time.Duration
}

// NewStore creates a store over db. A non-positive ttl selects DefaultStoreTTL.
func NewStore(db storage.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultStoreTTL
	}
	return &Store{db: db, ttl: ttl}
}

// Put stores info under its account hash.
func (s *Store) Put(info AccountInfo) error {
	if info.AccountHash == "" {
		return fmt.Errorf("account info put: missing account hash")
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("account info marshal: %w", err)
	}
	return storage.PutWithTTL(s.db, accountKey(info.AccountHash), data, s.ttl)
}

// Get retrieves the record for accountHash.
func (s *Store) Get(accountHash string) (AccountInfo, error) {
	data, err := s.db.Get(accountKey(accountHash))
	if errors.Is(err, storage.ErrNotFound) {
		return AccountInfo{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountHash)
	}
	if err != nil {
		return AccountInfo{}, fmt.Errorf("account info get: %w", err)
	}
	var info AccountInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return AccountInfo{}, fmt.Errorf("account info unmarshal: %w", err)
	}
	return info, nil
}

// Has checks if a record exists for accountHash.
func (s *Store) Has(accountHash string) (bool, error) {
	return s.db.Has(accountKey(accountHash))
}

// ForEach iterates over all stored records.
// Return a non-nil error from fn to stop iteration early.
func (s *Store) ForEach(fn func(AccountInfo) error) error {
	return s.db.ForEach(prefixAccount, func(_, value []byte) error {
		var info AccountInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return nil // Skip corrupt entries.
		}
		return fn(info)
	})
}

// LoadInto copies every stored record into c, returning how many were loaded.
func (s *Store) LoadInto(c *Cache) (int, error) {
	var n int
	err := s.ForEach(func(info AccountInfo) error {
		c.Set(info.AccountHash, info)
		n++
		return nil
	})
	return n, err
}

func accountKey(accountHash string) []byte {
	h := strings.ToLower(accountHash)
	key := make([]byte, 0, len(prefixAccount)+len(h))
	key = append(key, prefixAccount...)
	return append(key, h...)
}
