package robbery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/jsonstore"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/store"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type scriptedRand struct {
	floats []float64
	ints   []int64
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.fi]
	r.fi++
	return v
}

func (r *scriptedRand) Int63n(n int64) int64 {
	v := r.ints[r.ii]
	r.ii++
	return v % n
}

func defaultConfig() Config {
	return Config{
		MinBalance:    50,
		MaxRobAmount:  50,
		MaxLoseAmount: 50,
		Cooldown:      30 * time.Minute,
	}
}

func newTestEngine(t *testing.T, rng randSource) (*Engine, *store.LedgerStore, *store.ProfileStore) {
	t.Helper()
	js, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)
	ledger := store.NewLedgerStore(js)
	profiles := store.NewProfileStore(js)
	engine := New(defaultConfig(), ledger, profiles, lock.NewUserLock(), rng)
	return engine, ledger, profiles
}

func TestPreconditionOrder(t *testing.T) {
	engine, ledger, profiles := newTestEngine(t, &scriptedRand{})

	// Cooldown is checked before anything else, even an unresolved target.
	profiles.GetOrCreate(1).LastAttempt = testNow.Add(-10 * time.Minute).Unix()
	res := engine.Rob(1, 0, testNow)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Message, "抢劫冷却中")
	assert.Contains(t, res.Message, "20 分 0 秒")

	// Own balance before target resolution.
	res = engine.Rob(2, 0, testNow)
	assert.Contains(t, res.Message, "积分不足！")

	ledger.GetOrCreate(2).Balance = 80
	res = engine.Rob(2, 0, testNow)
	assert.Equal(t, "请使用 @ 指定要抢劫的用户", res.Message)

	res = engine.Rob(2, 2, testNow)
	assert.Equal(t, "不能抢劫自己！", res.Message)

	ledger.GetOrCreate(3).Balance = 20
	res = engine.Rob(2, 3, testNow)
	assert.Equal(t, "对方积分不足 50 分，无法抢劫！", res.Message)

	// None of the failed attempts started the cooldown or touched balances.
	assert.Equal(t, int64(0), profiles.GetOrCreate(2).LastAttempt)
	assert.Equal(t, int64(80), ledger.GetOrCreate(2).Balance)
	assert.Equal(t, int64(20), ledger.GetOrCreate(3).Balance)
}

func TestSuccessfulRobberyScenario(t *testing.T) {
	// Draw 0.3 < 0.5 succeeds; Int63n(50) of 39 plus one transfers 40.
	rng := &scriptedRand{floats: []float64{0.3}, ints: []int64{39}}
	engine, ledger, profiles := newTestEngine(t, rng)

	robber := ledger.GetOrCreate(1)
	robber.Balance = 200
	target := ledger.GetOrCreate(2)
	target.Balance = 100

	res := engine.Rob(1, 2, testNow)

	require.True(t, res.Applied)
	assert.True(t, res.Success)
	assert.Equal(t, int64(40), res.Amount)
	assert.Equal(t, int64(240), robber.Balance)
	assert.Equal(t, int64(60), target.Balance)
	assert.InDelta(t, 0.49, res.SuccessRate, 1e-9, "success rate drops by exactly 0.01")

	profile := profiles.GetOrCreate(1)
	assert.Equal(t, int64(1), profile.TotalCount)
	assert.Equal(t, int64(1), profile.SuccessCount)
	assert.Equal(t, int64(0), profile.FailCount)
	assert.Equal(t, testNow.Unix(), profile.LastAttempt)

	require.Len(t, robber.History, 1)
	assert.Equal(t, model.ActionRobSuccess, robber.History[0].Action)
	assert.Equal(t, int64(40), robber.History[0].Points)
	assert.Equal(t, int64(2), robber.History[0].Source)

	require.Len(t, target.History, 1)
	assert.Equal(t, model.ActionRobbed, target.History[0].Action)
	assert.Equal(t, int64(-40), target.History[0].Points)
	assert.Equal(t, int64(1), target.History[0].Source)
}

func TestFailedRobberyScenario(t *testing.T) {
	// Draw 0.9 >= 0.5 fails; Int63n(50) of 24 plus one loses 25.
	rng := &scriptedRand{floats: []float64{0.9}, ints: []int64{24}}
	engine, ledger, profiles := newTestEngine(t, rng)

	robber := ledger.GetOrCreate(1)
	robber.Balance = 200
	target := ledger.GetOrCreate(2)
	target.Balance = 100

	res := engine.Rob(1, 2, testNow)

	require.True(t, res.Applied)
	assert.False(t, res.Success)
	assert.Equal(t, int64(25), res.Amount)
	assert.Equal(t, int64(175), robber.Balance)
	assert.Equal(t, int64(125), target.Balance)
	assert.InDelta(t, 0.51, res.SuccessRate, 1e-9)

	profile := profiles.GetOrCreate(1)
	assert.Equal(t, int64(1), profile.FailCount)

	require.Len(t, robber.History, 1)
	assert.Equal(t, model.ActionRobFail, robber.History[0].Action)
	require.Len(t, target.History, 1)
	assert.Equal(t, model.ActionCounterRob, target.History[0].Action)
}

func TestTransferCappedAtTargetBalance(t *testing.T) {
	// Drawn amount 50 against a target holding exactly 50 empties the target.
	rng := &scriptedRand{floats: []float64{0.0}, ints: []int64{49}}
	engine, ledger, _ := newTestEngine(t, rng)

	ledger.GetOrCreate(1).Balance = 100
	ledger.GetOrCreate(2).Balance = 50

	res := engine.Rob(1, 2, testNow)
	require.True(t, res.Applied)
	assert.Equal(t, int64(50), res.Amount)
	assert.Equal(t, int64(0), ledger.GetOrCreate(2).Balance)
}

func TestCooldownStartsAfterAttempt(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.3, 0.4}, ints: []int64{9, 9}}
	engine, ledger, _ := newTestEngine(t, rng)

	ledger.GetOrCreate(1).Balance = 100
	ledger.GetOrCreate(2).Balance = 100

	res := engine.Rob(1, 2, testNow)
	require.True(t, res.Applied)

	res = engine.Rob(1, 2, testNow.Add(time.Minute))
	assert.False(t, res.Applied)
	assert.Contains(t, res.Message, "抢劫冷却中")

	res = engine.Rob(1, 2, testNow.Add(31*time.Minute))
	assert.True(t, res.Applied, "cooldown has elapsed")
}

// TestConservationProperty: a robbery attempt moves points, never creates or
// destroys them.
func TestConservationProperty(tt *testing.T) {
	rapid.Check(tt, func(t *rapid.T) {
		rng := &scriptedRand{
			floats: []float64{rapid.Float64Range(0, 1).Draw(t, "outcome")},
			ints:   []int64{rapid.Int64Range(0, 1<<40).Draw(t, "amount")},
		}

		js, err := jsonstore.New(tt.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		ledger := store.NewLedgerStore(js)
		profiles := store.NewProfileStore(js)
		engine := New(defaultConfig(), ledger, profiles, lock.NewUserLock(), rng)

		robber := ledger.GetOrCreate(1)
		robber.Balance = rapid.Int64Range(50, 10000).Draw(t, "robberBalance")
		target := ledger.GetOrCreate(2)
		target.Balance = rapid.Int64Range(50, 10000).Draw(t, "targetBalance")

		total := robber.Balance + target.Balance
		res := engine.Rob(1, 2, testNow)

		if !res.Applied {
			t.Fatalf("attempt unexpectedly refused: %s", res.Message)
		}
		if robber.Balance+target.Balance != total {
			t.Fatalf("points not conserved: %d -> %d", total, robber.Balance+target.Balance)
		}
		if robber.Balance < 0 || target.Balance < 0 {
			t.Fatalf("negative balance: robber=%d target=%d", robber.Balance, target.Balance)
		}
	})
}

// TestSuccessRateBoundsProperty: the rate stays in [0.01, 0.99] under
// arbitrary attempt sequences.
func TestSuccessRateBoundsProperty(tt *testing.T) {
	rapid.Check(tt, func(t *rapid.T) {
		attempts := rapid.IntRange(1, 120).Draw(t, "attempts")

		floats := make([]float64, attempts)
		ints := make([]int64, attempts)
		for i := range floats {
			floats[i] = rapid.Float64Range(0, 1).Draw(t, "draw")
			ints[i] = rapid.Int64Range(0, 49).Draw(t, "amount")
		}

		js, err := jsonstore.New(tt.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		ledger := store.NewLedgerStore(js)
		profiles := store.NewProfileStore(js)
		engine := New(defaultConfig(), ledger, profiles, lock.NewUserLock(),
			&scriptedRand{floats: floats, ints: ints})

		// Keep both parties well funded so every attempt passes preconditions.
		ledger.GetOrCreate(1).Balance = 1 << 30
		ledger.GetOrCreate(2).Balance = 1 << 30

		now := testNow
		for i := 0; i < attempts; i++ {
			res := engine.Rob(1, 2, now)
			if !res.Applied {
				t.Fatalf("attempt %d refused: %s", i, res.Message)
			}
			if res.SuccessRate < MinSuccessRate-1e-12 || res.SuccessRate > MaxSuccessRate+1e-12 {
				t.Fatalf("success rate %v out of bounds after attempt %d", res.SuccessRate, i)
			}
			now = now.Add(31 * time.Minute)
		}
	})
}

func TestProfilesSurviveRestart(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.3}, ints: []int64{9}}
	js, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)
	ledger := store.NewLedgerStore(js)
	profiles := store.NewProfileStore(js)
	engine := New(defaultConfig(), ledger, profiles, lock.NewUserLock(), rng)

	ledger.GetOrCreate(1).Balance = 100
	ledger.GetOrCreate(2).Balance = 100
	res := engine.Rob(1, 2, testNow)
	require.True(t, res.Applied)

	reloaded := store.NewProfileStore(js)
	profile := reloaded.GetOrCreate(1)
	assert.InDelta(t, 0.49, profile.SuccessRate, 1e-9)
	assert.Equal(t, int64(1), profile.TotalCount)
	assert.Equal(t, testNow.Unix(), profile.LastAttempt)
}
