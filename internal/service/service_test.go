package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"group-points-bot/internal/pkg/jsonstore"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/store"
)

// scriptedRand replays fixed draws so tests can force a specific tier or
// outcome. Int63n returns the scripted value modulo n.
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

func newTestLedger(t *testing.T) (*store.LedgerStore, *lock.UserLock) {
	t.Helper()
	js, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)
	return store.NewLedgerStore(js), lock.NewUserLock()
}
