package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs  []*fakeTx
	opts []*sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

type countingRecorder struct{ n int }

func (r *countingRecorder) RecordTxRetry() { r.n++ }

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{MaxRetries: maxRetries, InitialBackoff: time.Microsecond, MaxBackoff: time.Millisecond}
}

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, fastRetry(3), nil)

	var sawTx bool
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	rec := &countingRecorder{}
	m := NewTransactionManager(db, fastRetry(3), rec)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, rec.n)
	require.Len(t, db.txs, 3)
	assert.True(t, db.txs[0].rolledBack)
	assert.True(t, db.txs[1].rolledBack)
	assert.True(t, db.txs[2].committed)
}

func TestDoSerializable_ExhaustsRetryBudget(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, fastRetry(2), nil)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return &pq.Error{Code: "40P01"}
	})

	assert.ErrorIs(t, err, ErrTxConflict)
	assert.Equal(t, 3, calls)
}

func TestDoSerializable_BusinessErrorIsNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, fastRetry(3), nil)
	errBusiness := errors.New("not enough slots")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, calls)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDo_NestedCallJoinsOuterTransaction(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, fastRetry(0), nil)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestDo_PanicRollsBack(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, fastRetry(0), nil)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, db.txs[0].rolledBack)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(errors.Join(errors.New("ctx"), &pq.Error{Code: "40P01"})))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestDo_DefaultIsolationRetriesDeadlock(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, fastRetry(3), nil)

	calls := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40P01"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, db.opts, 2)
	assert.Nil(t, db.opts[0])
	assert.True(t, db.txs[0].rolledBack)
	assert.True(t, db.txs[1].committed)
}

func TestBackoff_JitterWithinBounds(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{}, RetryConfig{
		MaxRetries:     10,
		InitialBackoff: 8 * time.Millisecond,
		MaxBackoff:     40 * time.Millisecond,
	}, nil)

	seen := make(map[time.Duration]struct{})
	for i := 0; i < 200; i++ {
		d := m.backoff(0)
		assert.GreaterOrEqual(t, d, 4*time.Millisecond)
		assert.Less(t, d, 8*time.Millisecond)
		seen[d] = struct{}{}

		capped := m.backoff(6)
		assert.GreaterOrEqual(t, capped, 20*time.Millisecond)
		assert.Less(t, capped, 40*time.Millisecond)
	}
	assert.Greater(t, len(seen), 1, "retries must not wait in lockstep")
}
