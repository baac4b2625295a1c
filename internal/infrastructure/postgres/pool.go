package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"

	"github.com/jhoicas/tienda-pos/pkg/config"
)

// NewPool crea el pool de conexiones del POS.
// Si está definido DATABASE_URL se usa tal cual, forzando IPv4 cuando el host lo permite.
// Cada conexión trabaja en UTC (sale_date y los rangos de reportes) y con los
// timeouts de sesión configurados.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := cfg.DSN()
	if cfg.DatabaseURL != "" {
		dsn = databaseURLWithIPv4(cfg.DatabaseURL)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	for k, v := range sessionParams(cfg) {
		poolConfig.ConnConfig.RuntimeParams[k] = v
	}

	// NUMERIC -> shopspring/decimal en todas las conexiones del pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// sessionParams parámetros de arranque de cada conexión.
// lock_timeout acota cuánto espera una venta por los FOR UPDATE de otra caja.
func sessionParams(cfg config.DBConfig) map[string]string {
	params := map[string]string{"timezone": "UTC"}
	if cfg.ApplicationName != "" {
		params["application_name"] = cfg.ApplicationName
	}
	if cfg.LockTimeout > 0 {
		params["lock_timeout"] = strconv.FormatInt(cfg.LockTimeout.Milliseconds(), 10)
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return params
}

// databaseURLWithIPv4 reemplaza el hostname de la URL por su IPv4 si existe (contenedores sin IPv6).
func databaseURLWithIPv4(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ips, err := net.LookupIP(u.Hostname())
	if err != nil {
		return databaseURL
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			u.Host = net.JoinHostPort(ip.String(), port)
			return u.String()
		}
	}
	return databaseURL
}
