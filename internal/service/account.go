package service

import (
	"errors"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/store"
)

// ErrInvalidAmount is returned when a grant amount is not a positive integer.
var ErrInvalidAmount = errors.New("奖励积分必须为正整数")

// AccountService handles account queries and the admin reward grant.
type AccountService struct {
	ledger *store.LedgerStore
	locks  *lock.UserLock
}

// NewAccountService creates an AccountService.
func NewAccountService(ledger *store.LedgerStore, locks *lock.UserLock) *AccountService {
	return &AccountService{ledger: ledger, locks: locks}
}

// Snapshot returns a copy of the user's account state.
func (s *AccountService) Snapshot(userID int64) model.Account {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	acct := s.ledger.GetOrCreate(userID)
	snap := *acct
	snap.History = append([]model.PointsRecord(nil), acct.History...)
	return snap
}

// Grant credits points to a user on behalf of an admin. The caller is
// responsible for verifying the grantor's privileges; the grant itself only
// refuses non-positive amounts. Returns the resulting balance.
func (s *AccountService) Grant(targetID, amount, grantedBy int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	s.locks.Lock(targetID)
	defer s.locks.Unlock(targetID)

	acct := s.ledger.GetOrCreate(targetID)
	acct.Balance += amount
	s.ledger.AppendRecord(acct, amount, model.ActionReward, "管理员奖励", grantedBy)
	s.ledger.Save()

	return acct.Balance, nil
}
