// Package store provides file-backed persistence for accounts, robbery
// profiles, and group settings. Each store owns one JSON document.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/jsonstore"
)

// LedgerFile is the document holding all accounts, keyed by user ID.
const LedgerFile = "checkin_data.json"

// LedgerStore holds every user account and persists them as one document.
//
// The store-level mutex only guards the account table itself; callers must
// hold the per-user lock across any read-modify-write of a single account.
type LedgerStore struct {
	js *jsonstore.Store

	mu       sync.Mutex
	accounts map[int64]*model.Account
}

// NewLedgerStore creates a LedgerStore and loads the ledger document.
// A missing or corrupt document starts the ledger empty.
func NewLedgerStore(js *jsonstore.Store) *LedgerStore {
	s := &LedgerStore{
		js:       js,
		accounts: make(map[int64]*model.Account),
	}
	js.Load(LedgerFile, &s.accounts)
	log.Info().Int("accounts", len(s.accounts)).Msg("Ledger loaded")
	return s
}

// GetOrCreate returns the account for userID, creating an empty one on first
// reference. It never fails.
func (s *LedgerStore) GetOrCreate(userID int64) *model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		acct = &model.Account{History: []model.PointsRecord{}}
		s.accounts[userID] = acct
	}
	return acct
}

// AppendRecord appends a history entry to the account and trims the history
// to the last model.MaxHistory entries. The balance delta itself is applied
// by the caller before this call; the record snapshots the resulting balance.
// Every balance change must be paired with exactly one AppendRecord call.
func (s *LedgerStore) AppendRecord(acct *model.Account, points int64, action, description string, sourceID int64) {
	rec := model.PointsRecord{
		Time:        time.Now().Format("2006-01-02 15:04:05"),
		Action:      action,
		Points:      points,
		Description: description,
		Source:      sourceID,
		Balance:     acct.Balance,
	}

	acct.History = append(acct.History, rec)
	if len(acct.History) > model.MaxHistory {
		acct.History = acct.History[len(acct.History)-model.MaxHistory:]
	}
}

// Len returns the number of accounts.
func (s *LedgerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// Save writes the ledger document. Write failures are logged, not propagated;
// the in-memory state stays authoritative.
func (s *LedgerStore) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.js.Save(LedgerFile, s.accounts); err != nil {
		log.Error().Err(err).Msg("Failed to save ledger")
	}
}
