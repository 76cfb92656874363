package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreDriver resolves which backend to use. DB_URL wins over DB_DRIVER when set.
func (c *Config) StoreDriver() (string, error) {
	if c.DB.URL != "" {
		u, err := url.Parse(c.DB.URL)
		if err != nil {
			return "", fmt.Errorf("parsing database url: %w", err)
		}

		switch u.Scheme {
		case "postgres", "postgresql":
			return DriverPostgres, nil
		case "sqlite", "sqlite3", "file":
			return DriverSQLite, nil
		case "memory":
			return DriverMemory, nil
		default:
			return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
		}
	}

	switch strings.ToLower(c.DB.Driver) {
	case "", DriverMemory:
		return DriverMemory, nil
	case DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverPostgres, "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.DB.Driver)
	}
}

func (c *Config) postgresDBName(name string) string {
	if c.DB.Postgres.Prefix != "" {
		return c.DB.Postgres.Prefix + name
	}

	return name
}

// PostgresDSN returns the connection string for the given endpoint, or DB_URL when one is configured.
func (c *Config) PostgresDSN(endpoint PostgresEndpoint) string {
	if c.DB.URL != "" {
		return c.DB.URL
	}

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s&timezone=%s",
		url.QueryEscape(endpoint.Username),
		url.QueryEscape(endpoint.Password),
		net.JoinHostPort(endpoint.Host, endpoint.Port),
		c.postgresDBName(endpoint.Name),
		endpoint.SSLMode,
		url.QueryEscape(endpoint.Timezone),
	)
}

// SQLitePath returns the database file, taken from DB_URL when it carries one.
func (c *Config) SQLitePath() string {
	if c.DB.URL != "" {
		u, err := url.Parse(c.DB.URL)
		if err == nil && u.Scheme != "postgres" && u.Scheme != "postgresql" {
			path := u.Opaque
			if path == "" {
				path = u.Host + u.Path
			}

			if path != "" {
				return path
			}
		}
	}

	return c.DB.SQLite.Path
}
