// Package service provides business logic implementations.
package service

import (
	"fmt"
	"math/rand"
	"time"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/store"
)

// DateLayout is the calendar-date format used for check-in bookkeeping.
const DateLayout = "2006-01-02"

// systemRand adapts the process-wide math/rand source, which is safe for
// concurrent use.
type systemRand struct{}

func (systemRand) Float64() float64     { return rand.Float64() }
func (systemRand) Int63n(n int64) int64 { return rand.Int63n(n) }

// CheckinResult describes the outcome of a check-in attempt.
type CheckinResult struct {
	AlreadyDone  bool
	Points       int64
	Balance      int64
	CheckinCount int64
	Message      string
}

// CheckinService handles the daily check-in.
type CheckinService struct {
	ledger *store.LedgerStore
	locks  *lock.UserLock
	policy *RewardPolicy
	rng    randSource
}

// NewCheckinService creates a CheckinService. A nil rng falls back to the
// process-wide math/rand source.
func NewCheckinService(ledger *store.LedgerStore, locks *lock.UserLock, policy *RewardPolicy, rng randSource) *CheckinService {
	if rng == nil {
		rng = systemRand{}
	}
	return &CheckinService{
		ledger: ledger,
		locks:  locks,
		policy: policy,
		rng:    rng,
	}
}

// CheckIn performs the daily check-in for a user. A second attempt on the
// same calendar date leaves the account untouched.
func (s *CheckinService) CheckIn(userID int64, now time.Time) *CheckinResult {
	today := now.Format(DateLayout)

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	acct := s.ledger.GetOrCreate(userID)

	if acct.LastCheckinDate == today {
		return &CheckinResult{
			AlreadyDone:  true,
			Balance:      acct.Balance,
			CheckinCount: acct.CheckinCount,
		}
	}

	points, desc := s.policy.Draw(s.rng)

	acct.Balance += points
	acct.LastCheckinDate = today
	acct.CheckinCount++

	recordDesc := desc
	if recordDesc == "" {
		recordDesc = fmt.Sprintf("签到获得 %d 积分", points)
	}
	s.ledger.AppendRecord(acct, points, model.ActionCheckin, recordDesc, 0)
	s.ledger.Save()

	return &CheckinResult{
		Points:       points,
		Balance:      acct.Balance,
		CheckinCount: acct.CheckinCount,
		Message:      rewardMessage(points, desc, now),
	}
}

// rewardMessage builds the check-in reply text. A 50-point reward carries the
// crazy-Thursday phrase only when the check-in happens on a Thursday; any
// configured description for that tier is ignored on other days.
func rewardMessage(points int64, desc string, now time.Time) string {
	base := fmt.Sprintf("签到成功，获得 %d 积分", points)

	if points == 50 {
		if now.Weekday() == time.Thursday {
			return base + "\n今天是疯狂星期四，v你50"
		}
		return base
	}

	if desc != "" {
		return base + "\n" + desc
	}
	return base
}
