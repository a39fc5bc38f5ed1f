package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type Config struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	User     string `yaml:"user" envconfig:"USER_NAME" required:"true"`
	Password string `yaml:"password" envconfig:"PASSWORD" required:"true"`
	DBName   string `yaml:"dbname" envconfig:"DB_NAME" default:"perpustakaan"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// NewPostgresDB opens a pgx pool and applies embedded goose migrations.
func NewPostgresDB(ctx context.Context, cfg *Config, migrations embed.FS) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.New")
	}
	if err = pool.Ping(ctx); err != nil {
		return nil, errors.Wrap(err, "db ping")
	}
	if err = up(cfg, migrations); err != nil {
		return nil, errors.Wrap(err, "migrations")
	}
	return pool, nil
}

func up(cfg *Config, migrations embed.FS) error {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
