package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/lox/twentyone/internal/game"
)

// MemoryStore is an in-memory Store for tests and local play without a
// database.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*memoryUser
}

type memoryUser struct {
	hashedPassword []byte
	purse          int
	wins           int
	losses         int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*memoryUser)}
}

// CreateUser registers an account with a starting purse.
func (s *MemoryStore) CreateUser(username, password string, purse int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return fmt.Errorf("ledger: user %s already exists", username)
	}
	s.users[username] = &memoryUser{hashedPassword: hashed, purse: purse}
	return nil
}

func (s *MemoryStore) Authenticate(_ context.Context, username, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword(u.hashedPassword, []byte(password)) == nil, nil
}

func (s *MemoryStore) Purse(_ context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	return u.purse, nil
}

func (s *MemoryStore) Credit(_ context.Context, username string, amount int) error {
	return s.adjust(username, amount)
}

func (s *MemoryStore) Debit(_ context.Context, username string, amount int) error {
	return s.adjust(username, -amount)
}

func (s *MemoryStore) adjust(username string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	u.purse += delta
	return nil
}

func (s *MemoryStore) RecordOutcome(_ context.Context, username string, winner game.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}
	if winner == game.WinnerPlayer {
		u.wins++
	} else {
		u.losses++
	}
	return nil
}

func (s *MemoryStore) Leaderboard(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.users))
	for name, u := range s.users {
		entries = append(entries, Entry{Username: name, Purse: u.purse, Wins: u.wins, Losses: u.losses})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Purse != entries[j].Purse {
			return entries[i].Purse > entries[j].Purse
		}
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Username < entries[j].Username
	})
	return entries, nil
}

func (s *MemoryStore) Close() {}
