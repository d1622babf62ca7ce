package postgres

//nolint:revive
import (
	"hotelops/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits traffic so list queries can go to a replica.
// Read and Write may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Pool holds the tuning shared by both sides of the split.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxRetry    int
	RetryWait   time.Duration
}

func poolFromConfig(cfg *config.Config) Pool {
	pg := cfg.DB.Postgres

	return Pool{
		MaxOpen:     pg.MaxOpenConns,
		MaxIdle:     pg.MaxIdleConns,
		MaxLifetime: time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute,
		MaxRetry:    max(pg.MaxRetry, 1),
		RetryWait:   time.Duration(pg.RetryWaitTime) * time.Second,
	}
}

func New(cfg *config.Config) *Connection {
	pool := poolFromConfig(cfg)
	prefix := cfg.DB.Postgres.Prefix

	return &Connection{
		Read:  Open("read", DSN(cfg.DB.Postgres.Read, prefix), pool),
		Write: Open("write", DSN(cfg.DB.Postgres.Write, prefix), pool),
	}
}

// DSN builds a postgres URL. Credentials are escaped, so passwords may
// contain reserved characters.
func DSN(endpoint config.PostgresEndpoint, prefix string) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.SSLMode == "" {
		query.Set("sslmode", "disable")
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Open retries until the server answers or the retry budget runs out,
// returning nil in the latter case.
func Open(name, dsn string, pool Pool) *sqlx.DB {
	for attempt := 1; attempt <= pool.MaxRetry; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(pool.MaxOpen)
			db.SetMaxIdleConns(pool.MaxIdle)
			db.SetConnMaxLifetime(pool.MaxLifetime)

			log.Info().Str("name", name).Str("dsn", redact(dsn)).Msg("connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", name).
			Str("dsn", redact(dsn)).
			Int("attempt", attempt).
			Msg("failed connecting to database, retrying")

		time.Sleep(pool.RetryWait)
	}

	return nil
}

func redact(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return ""
	}

	return parsed.Redacted()
}

func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
}
