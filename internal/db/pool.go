package db

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost string
	DBPort string
	DBName string
	// AppName is reported to postgres as application_name, empty leaves it unset.
	AppName string
	// MaxConns caps the pool size, 0 keeps the pgxpool default.
	MaxConns       int32
	TracingEnabled bool
}

// NewDBPool creates a postgres connection pool. No connection is made until
// the pool is first used.
func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	if params.MaxConns < 0 {
		return nil, fmt.Errorf("invalid max conns: %d", params.MaxConns)
	}

	connURL := url.URL{
		Scheme: "postgres",
		User:   url.User("postgres"),
		Host:   net.JoinHostPort(params.DBHost, params.DBPort),
		Path:   "/" + params.DBName,
	}
	poolConfig, err := pgxpool.ParseConfig(connURL.String())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.MaxConns > 0 {
		poolConfig.MaxConns = params.MaxConns
		if poolConfig.MinConns > params.MaxConns {
			poolConfig.MinConns = params.MaxConns
		}
	}
	if params.AppName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = params.AppName
	}
	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return pool, nil
}
