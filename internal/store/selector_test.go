package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/capture-moments/backend/internal/metrics"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/store"
	"github.com/capture-moments/backend/internal/store/storetest"
)

func TestSelect_Relational(t *testing.T) {
	pg := storetest.NewMemory()
	mongoCalled := false

	b, err := store.Select(context.Background(), false, store.Connectors{
		Postgres: storetest.Connector(store.BackendPostgres, pg),
		Mongo: func(context.Context) (*store.Backend, error) {
			mongoCalled = true
			return nil, errors.New("unexpected")
		},
	}, zerolog.Nop())

	require.NoError(t, err)
	require.Equal(t, store.BackendPostgres, b.Name)
	require.False(t, mongoCalled)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveBackend.WithLabelValues(store.BackendPostgres)))
}

func TestSelect_Document(t *testing.T) {
	doc := storetest.NewMemory()

	b, err := store.Select(context.Background(), true, store.Connectors{
		Postgres: storetest.Unreachable(errors.New("should not be dialed")),
		Mongo:    storetest.Connector(store.BackendMongo, doc),
	}, zerolog.Nop())

	require.NoError(t, err)
	require.Equal(t, store.BackendMongo, b.Name)
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.BackendFallback))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveBackend.WithLabelValues(store.BackendMongo)))
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveBackend.WithLabelValues(store.BackendPostgres)))
}

func TestSelect_FallsBackWhenDocumentStoreUnreachable(t *testing.T) {
	pg := storetest.NewMemory()

	b, err := store.Select(context.Background(), true, store.Connectors{
		Postgres: storetest.Connector(store.BackendPostgres, pg),
		Mongo:    storetest.Unreachable(errors.New("server selection timeout")),
	}, zerolog.Nop())

	require.NoError(t, err)
	require.Equal(t, store.BackendPostgres, b.Name)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendFallback))
}

func TestSelect_RelationalFailureIsFatal(t *testing.T) {
	_, err := store.Select(context.Background(), true, store.Connectors{
		Postgres: storetest.Unreachable(errors.New("connection refused")),
		Mongo:    storetest.Unreachable(errors.New("server selection timeout")),
	}, zerolog.Nop())

	require.ErrorIs(t, err, models.ErrBackendUnavailable)
}
