// Package dockertesting starts throwaway Postgres and Redis containers for integration tests.
package dockertesting

import (
	"database/sql"
	"fmt"
	"net"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	PostgresUser = "postgres"
	LocalHost    = "localhost"
)

func NewPool() (*dockertest.Pool, error) {
	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	return pool, nil
}

// StartPostgres runs a postgres container with trust auth and waits until it
// accepts connections. Returns the mapped host port.
func StartPostgres(pool *dockertest.Pool, dbName string) (string, func(), error) {
	pgResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + PostgresUser,
			"POSTGRES_DB=" + dbName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", nil, fmt.Errorf("dockerpool run postgres: %w", err)
	}
	cleanup := func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	}

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(
		"postgres://%s@%s/%s?sslmode=disable",
		PostgresUser, net.JoinHostPort(LocalHost, pgPort), dbName,
	)
	if err := pool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	}); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return pgPort, cleanup, nil
}

// StartRedis runs a redis container and returns the mapped host port.
func StartRedis(pool *dockertest.Pool) (string, func(), error) {
	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", nil, fmt.Errorf("run redis: %w", err)
	}

	return redisResource.GetPort("6379/tcp"), func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	}, nil
}
