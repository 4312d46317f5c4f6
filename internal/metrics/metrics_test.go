package metrics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/config"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/database"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMyWorkRequest(t *testing.T) {
	counter := myWorkRequestsTotal.WithLabelValues("task_counts", "invalid")
	before := testutil.ToFloat64(counter)

	RecordMyWorkRequest("task_counts", "invalid")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordSourceFetch_CountsErrors(t *testing.T) {
	errorsCounter := sourceFetchErrorsTotal.WithLabelValues("campaign_response")
	before := testutil.ToFloat64(errorsCounter)

	RecordSourceFetch("campaign_response", 0.01, nil)
	RecordSourceFetch("campaign_response", 0.02, errors.New("timeout"))

	assert.Equal(t, before+1, testutil.ToFloat64(errorsCounter))
}

func TestUpdateDatabaseConnections_NilDB(t *testing.T) {
	assert.Error(t, UpdateDatabaseConnections(nil))
}

func TestCollector_UpdatesPoolGauges(t *testing.T) {
	db, err := database.Connect(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "metrics.db"),
	})
	require.NoError(t, err)

	collector := NewCollector(db, 10*time.Millisecond, nil)
	collector.Start(context.Background())
	defer collector.Stop()

	// SQLite 固定单连接
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(databaseConnectionsMax) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCollector_StopWithoutStart(t *testing.T) {
	NewCollector(nil, 0, nil).Stop()
}
