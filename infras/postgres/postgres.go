package postgres

//nolint:revive
import (
	"eventhub/config"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 25
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads and writes so a replica can serve listings.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type connParams struct {
	name     string
	username string
	password string
	host     string
	port     string
	dbName   string
	sslMode  string
	timezone string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read: CreatePostgresConnection(connParams{
			name:     "read",
			username: pg.Read.Username,
			password: pg.Read.Password,
			host:     pg.Read.Host,
			port:     pg.Read.Port,
			dbName:   pg.Prefix + pg.Read.Name,
			sslMode:  pg.Read.SSLMode,
			timezone: pg.Read.Timezone,
		}, pg.MaxRetry, pg.RetryWaitTime),
		Write: CreatePostgresConnection(connParams{
			name:     "write",
			username: pg.Write.Username,
			password: pg.Write.Password,
			host:     pg.Write.Host,
			port:     pg.Write.Port,
			dbName:   pg.Prefix + pg.Write.Name,
			sslMode:  pg.Write.SSLMode,
			timezone: pg.Write.Timezone,
		}, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DSN builds the lib/pq connection URL.
func DSN(username, password, host, port, dbName, sslMode, timezone string) string {
	query := url.Values{}
	if sslMode != "" {
		query.Set("sslmode", sslMode)
	}

	if timezone != "" {
		query.Set("timezone", timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     dbName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// CreatePostgresConnection connects with retries and terminates the process
// once every attempt failed.
func CreatePostgresConnection(params connParams, maxRetry, waitTime int) *sqlx.DB {
	descriptor := DSN(params.username, params.password, params.host, params.port, params.dbName, params.sslMode, params.timezone)

	var lastErr error

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.Info().
				Str("name", params.name).
				Str("host", params.host).
				Str("dbName", params.dbName).
				Msg("Connected to database")

			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		lastErr = err

		log.Error().
			Err(err).
			Str("name", params.name).
			Str("host", params.host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	log.Fatal().Err(fmt.Errorf("connect %s database: %w", params.name, lastErr)).Msg("Giving up on database")

	return nil
}
