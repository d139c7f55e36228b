// Package robbery implements the adaptive-probability robbery game.
package robbery

import (
	"fmt"
	"math/rand"
	"time"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/store"
)

// Success rate bounds and per-attempt drift.
const (
	MinSuccessRate = 0.01
	MaxSuccessRate = 0.99
	RateStep       = 0.01
)

// Config holds robbery game configuration.
type Config struct {
	MinBalance    int64         // both parties need at least this many points
	MaxRobAmount  int64         // upper bound of a successful transfer
	MaxLoseAmount int64         // upper bound of a failed attempt's loss
	Cooldown      time.Duration // minimum gap between an actor's attempts
}

// randSource is the randomness the engine draws from.
// *math/rand.Rand satisfies it; tests substitute scripted draws.
type randSource interface {
	Float64() float64
	Int63n(n int64) int64
}

type systemRand struct{}

func (systemRand) Float64() float64     { return rand.Float64() }
func (systemRand) Int63n(n int64) int64 { return rand.Int63n(n) }

// Result contains the outcome of a robbery attempt. Applied reports whether
// points actually moved; precondition failures carry only a message.
type Result struct {
	Applied     bool
	Success     bool
	Amount      int64
	Balance     int64   // actor's balance after the attempt
	SuccessRate float64 // actor's rate after the attempt
	Message     string
}

// Engine runs robbery attempts against the ledger.
type Engine struct {
	cfg      Config
	ledger   *store.LedgerStore
	profiles *store.ProfileStore
	locks    *lock.UserLock
	rng      randSource
}

// New creates a robbery Engine. A nil rng falls back to the process-wide
// math/rand source.
func New(cfg Config, ledger *store.LedgerStore, profiles *store.ProfileStore, locks *lock.UserLock, rng randSource) *Engine {
	if rng == nil {
		rng = systemRand{}
	}
	return &Engine{
		cfg:      cfg,
		ledger:   ledger,
		profiles: profiles,
		locks:    locks,
		rng:      rng,
	}
}

// Rob executes a robbery attempt. targetID zero means the caller could not
// resolve a target from the message. Precondition failures are reported in
// the result message and never mutate any account; the check order matches
// the original game (cooldown, own balance, target resolution, self-target,
// target balance).
func (e *Engine) Rob(robberID, targetID int64, now time.Time) *Result {
	profile := e.profiles.GetOrCreate(robberID)

	if profile.LastAttempt > 0 {
		elapsed := now.Sub(time.Unix(profile.LastAttempt, 0))
		if elapsed < e.cfg.Cooldown {
			remaining := e.cfg.Cooldown - elapsed
			mins := int(remaining.Seconds()) / 60
			secs := int(remaining.Seconds()) % 60
			return &Result{Message: fmt.Sprintf("抢劫冷却中\n剩余时间：%d 分 %d 秒", mins, secs)}
		}
	}

	robber := e.ledger.GetOrCreate(robberID)
	if robber.Balance < e.cfg.MinBalance {
		return &Result{Message: fmt.Sprintf(
			"积分不足！\n抢劫需要至少 %d 积分，当前积分：%d 分", e.cfg.MinBalance, robber.Balance)}
	}

	if targetID == 0 {
		return &Result{Message: "请使用 @ 指定要抢劫的用户"}
	}
	if targetID == robberID {
		return &Result{Message: "不能抢劫自己！"}
	}

	target := e.ledger.GetOrCreate(targetID)
	if target.Balance < e.cfg.MinBalance {
		return &Result{Message: fmt.Sprintf("对方积分不足 %d 分，无法抢劫！", e.cfg.MinBalance)}
	}

	// Lock both parties in ID order for the transfer itself.
	if !e.locks.TryLockPair(robberID, targetID) {
		return &Result{Message: "系统繁忙，请稍后重试"}
	}
	defer e.locks.UnlockPair(robberID, targetID)

	rate := profile.SuccessRate
	success := e.rng.Float64() < rate

	var amount int64
	if success {
		amount = 1 + e.rng.Int63n(e.cfg.MaxRobAmount)
		if amount > target.Balance {
			amount = target.Balance
		}

		robber.Balance += amount
		target.Balance -= amount

		e.ledger.AppendRecord(robber, amount, model.ActionRobSuccess,
			fmt.Sprintf("抢劫成功获得 %d 积分", amount), targetID)
		e.ledger.AppendRecord(target, -amount, model.ActionRobbed,
			fmt.Sprintf("被抢劫损失 %d 积分", amount), robberID)

		profile.SuccessRate = max(MinSuccessRate, rate-RateStep)
		profile.SuccessCount++
	} else {
		amount = 1 + e.rng.Int63n(e.cfg.MaxLoseAmount)
		if amount > robber.Balance {
			amount = robber.Balance
		}

		robber.Balance -= amount
		target.Balance += amount

		e.ledger.AppendRecord(robber, -amount, model.ActionRobFail,
			fmt.Sprintf("抢劫失败损失 %d 积分", amount), targetID)
		e.ledger.AppendRecord(target, amount, model.ActionCounterRob,
			fmt.Sprintf("反抢获得 %d 积分", amount), robberID)

		profile.SuccessRate = min(MaxSuccessRate, rate+RateStep)
		profile.FailCount++
	}

	profile.TotalCount++
	profile.LastAttempt = now.Unix()

	e.ledger.Save()
	e.profiles.Save()

	var msg string
	if success {
		msg = fmt.Sprintf("抢劫成功！\n获得积分：+%d 分\n当前积分：%d 分\n当前成功率：%d%%",
			amount, robber.Balance, int(profile.SuccessRate*100))
	} else {
		msg = fmt.Sprintf("抢劫失败！\n损失积分：-%d 分\n当前积分：%d 分\n当前成功率：%d%%",
			amount, robber.Balance, int(profile.SuccessRate*100))
	}

	return &Result{
		Applied:     true,
		Success:     success,
		Amount:      amount,
		Balance:     robber.Balance,
		SuccessRate: profile.SuccessRate,
		Message:     msg,
	}
}
