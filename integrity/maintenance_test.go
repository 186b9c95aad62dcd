/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nautilus-one/synckit/kvstore"
	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/log/logtest"
)

func TestMaintenanceWorker(t *testing.T) {
	checker := NewChecker(kvstore.NewMemoryStore(), CheckerOpts{MaxRetries: 1})
	verified, err := checker.CreateCheck("t", "insert", 1)
	require.NoError(t, err)
	failed, err := checker.CreateCheck("t", "insert", 2)
	require.NoError(t, err)
	_, err = checker.CreateCheck("t", "insert", 3)
	require.NoError(t, err)
	require.True(t, checker.VerifyChecksum(verified.ID, 1))
	require.False(t, checker.VerifyChecksum(failed.ID, 20))

	logs := logtest.NewRecorder()
	require.NoError(t, NewMaintenanceWorker(checker, logs).Run(context.Background()))

	require.Equal(t, Stats{Total: 2, Pending: 1, Failed: 1}, checker.Stats())
	entry, found := logs.FindEntry("integrity maintenance finished")
	require.True(t, found)
	cleared, found := entry.FindField("cleared")
	require.True(t, found)
	require.EqualValues(t, 1, cleared.Int)
	require.Equal(t, 1, logs.CountAtLevel(log.LevelWarn))
}

func TestMaintenanceWorkerCanceledContext(t *testing.T) {
	checker := NewChecker(kvstore.NewMemoryStore(), CheckerOpts{})
	check, err := checker.CreateCheck("t", "insert", 1)
	require.NoError(t, err)
	checker.MarkVerified(check.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, NewMaintenanceWorker(checker, nil).Run(ctx))
	require.Equal(t, 1, checker.Stats().Verified)
}
