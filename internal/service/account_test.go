package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group-points-bot/internal/model"
)

func TestGrantCreditsAndRecords(t *testing.T) {
	ledger, locks := newTestLedger(t)
	svc := NewAccountService(ledger, locks)

	balance, err := svc.Grant(1001, 300, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)

	acct := ledger.GetOrCreate(1001)
	require.Len(t, acct.History, 1)
	assert.Equal(t, model.ActionReward, acct.History[0].Action)
	assert.Equal(t, int64(300), acct.History[0].Points)
	assert.Equal(t, int64(9), acct.History[0].Source)
	assert.Equal(t, "管理员奖励", acct.History[0].Description)
}

func TestGrantRejectsNonPositiveAmounts(t *testing.T) {
	ledger, locks := newTestLedger(t)
	svc := NewAccountService(ledger, locks)

	for _, amount := range []int64{0, -1, -100} {
		_, err := svc.Grant(1001, amount, 9)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	acct := ledger.GetOrCreate(1001)
	assert.Equal(t, int64(0), acct.Balance)
	assert.Empty(t, acct.History, "rejected grants must not touch the account")
}

func TestSnapshotIsACopy(t *testing.T) {
	ledger, locks := newTestLedger(t)
	svc := NewAccountService(ledger, locks)

	_, err := svc.Grant(1, 10, 9)
	require.NoError(t, err)

	snap := svc.Snapshot(1)
	snap.Balance = 9999
	snap.History[0].Points = 9999

	acct := ledger.GetOrCreate(1)
	assert.Equal(t, int64(10), acct.Balance)
	assert.Equal(t, int64(10), acct.History[0].Points)
}
