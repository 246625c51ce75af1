package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fleetwise/fleetwise-api/pkg/telemetry"
)

func TestTracerProviderShutdown(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	tp, err := telemetry.NewTracerProvider(ctx, "fleetwise-test", "test", "localhost:4317", 0, logger)
	require.NoError(t, err)

	// O encerramento reporta falhas ao chamador, que decide como registrar
	var shutdown func(context.Context) error = tp.Shutdown

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, shutdown(shutdownCtx))
}
