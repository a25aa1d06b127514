package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/config"
	"github.com/capture-moments/backend/internal/metrics"
)

// Connector opens one backend.
type Connector func(ctx context.Context) (*Backend, error)

// Connectors holds one connector per backend kind.
type Connectors struct {
	Postgres Connector
	Mongo    Connector
}

// DefaultConnectors builds connectors from configuration.
func DefaultConnectors(cfg *config.Config) Connectors {
	return Connectors{
		Postgres: func(ctx context.Context) (*Backend, error) {
			pg, err := OpenPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.ConnectTimeout)
			if err != nil {
				return nil, err
			}
			return &Backend{Name: BackendPostgres, Repository: pg}, nil
		},
		Mongo: func(ctx context.Context) (*Backend, error) {
			m, err := OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
			if err != nil {
				return nil, err
			}
			return &Backend{Name: BackendMongo, Repository: m}, nil
		},
	}
}

// Select opens the backend for the lifetime of the process. When the
// document store is requested but cannot be reached, the relational backend
// is used instead and the fallback is logged. Only a relational failure is
// returned as an error.
func Select(ctx context.Context, useDocumentStore bool, c Connectors, log zerolog.Logger) (*Backend, error) {
	if useDocumentStore {
		b, err := c.Mongo(ctx)
		if err == nil {
			markActive(b.Name)
			metrics.BackendFallback.Set(0)
			log.Info().Str("backend", b.Name).Msg("persistence backend selected")
			return b, nil
		}
		log.Warn().Err(err).
			Str("requested", BackendMongo).
			Str("using", BackendPostgres).
			Msg("backend fallback")
		metrics.BackendFallback.Set(1)
	}

	b, err := c.Postgres(ctx)
	if err != nil {
		return nil, fmt.Errorf("select backend: %w", err)
	}
	markActive(b.Name)
	log.Info().Str("backend", b.Name).Msg("persistence backend selected")
	return b, nil
}

func markActive(name string) {
	for _, n := range []string{BackendPostgres, BackendMongo} {
		v := 0.0
		if n == name {
			v = 1
		}
		metrics.ActiveBackend.WithLabelValues(n).Set(v)
	}
}
