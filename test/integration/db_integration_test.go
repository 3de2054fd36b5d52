package integration

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/storage/postgres"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDB   *sql.DB
	testPort string
)

// dbConfig points at the container started by TestMain.
func dbConfig() *postgres.Config {
	return &postgres.Config{
		User:           "cookbook",
		Password:       "cookbook",
		Host:           "localhost",
		Port:           testPort,
		Database:       "cookbook",
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
		ConnectTimeout: 2,
		LogLevel:       logger.Silent,
	}
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("docker pool: %s", err)
	}
	pool.MaxWait = 60 * time.Second
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("docker unreachable: %s", err)
	}

	pg, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "17-alpine",
		Env: []string{
			"POSTGRES_USER=cookbook",
			"POSTGRES_PASSWORD=cookbook",
			"POSTGRES_DB=cookbook",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("start postgres: %s", err)
	}
	testPort = pg.GetPort("5432/tcp")

	// migrations go through lib/pq, the same path as `cookbook-worker migrate`
	if err := pool.Retry(func() error {
		db, err := sql.Open("postgres", dbConfig().DSN())
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return err
		}
		testDB = db
		return nil
	}); err != nil {
		log.Fatalf("prepare postgres: %s", err)
	}

	for k, v := range map[string]string{
		"POSTGRES_USER":      "cookbook",
		"POSTGRES_PASSWORD":  "cookbook",
		"POSTGRES_DB":        "cookbook",
		"POSTGRES_HOST":      "localhost",
		"POSTGRES_PORT":      testPort,
		"DB_MAX_RETRIES":     "3",
		"DB_RETRY_DELAY":     "100ms",
		"DB_CONNECT_TIMEOUT": "2",
		"DB_LOG_LEVEL":       "silent",
	} {
		os.Setenv(k, v)
	}

	code := m.Run()

	testDB.Close()
	if err := pool.Purge(pg); err != nil {
		log.Fatalf("purge postgres: %s", err)
	}
	os.Exit(code)
}

func TestConnectDB(t *testing.T) {
	unreachable := func(retries int, delay time.Duration) *postgres.Config {
		cfg := dbConfig()
		cfg.Port = "19999"
		cfg.MaxRetries = retries
		cfg.RetryDelay = delay
		cfg.ConnectTimeout = 1
		return cfg
	}

	tests := []struct {
		name        string
		config      func() *postgres.Config
		ctx         func() (context.Context, context.CancelFunc)
		env         map[string]string
		errIs       error
		errContains string
		maxElapsed  time.Duration
		validate    func(t *testing.T, db *gorm.DB)
	}{
		{
			name:   "configuration loaded from env",
			config: func() *postgres.Config { return nil },
			validate: func(t *testing.T, db *gorm.DB) {
				var name string
				require.NoError(t, db.Raw("SELECT current_database()").Scan(&name).Error)
				assert.Equal(t, "cookbook", name)

				sqlDB, err := db.DB()
				require.NoError(t, err)
				assert.Equal(t, 50, sqlDB.Stats().MaxOpenConnections)
			},
		},
		{
			name:   "connected database sees migrated schema",
			config: dbConfig,
			validate: func(t *testing.T, db *gorm.DB) {
				var version int64
				require.NoError(t, db.Raw("SELECT MAX(version_id) FROM goose_db_version").Scan(&version).Error)
				assert.GreaterOrEqual(t, version, int64(3))
				assert.True(t, db.Migrator().HasTable("recipe_image_queue"))
			},
		},
		{
			name:        "invalid DB_CONNECT_TIMEOUT is rejected before dialing",
			config:      func() *postgres.Config { return nil },
			env:         map[string]string{"DB_CONNECT_TIMEOUT": "-1"},
			errContains: "DB_CONNECT_TIMEOUT must be non-negative",
		},
		{
			name:   "already cancelled context never dials",
			config: func() *postgres.Config { return unreachable(5, time.Second) },
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			errIs:      context.Canceled,
			maxElapsed: 500 * time.Millisecond,
		},
		{
			name:   "deadline interrupts the retry wait",
			config: func() *postgres.Config { return unreachable(50, time.Second) },
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 1500*time.Millisecond)
			},
			errIs:      context.DeadlineExceeded,
			maxElapsed: 4 * time.Second,
		},
		{
			name:        "retries exhausted against a closed port",
			config:      func() *postgres.Config { return unreachable(2, 10*time.Millisecond) },
			errContains: "database connection failed after 2 attempts",
		},
		{
			name: "wrong password is reported as bad credentials",
			config: func() *postgres.Config {
				cfg := dbConfig()
				cfg.Password = "wrong"
				cfg.MaxRetries = 1
				return cfg
			},
			errContains: "invalid database credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			newCtx := tt.ctx
			if newCtx == nil {
				newCtx = func() (context.Context, context.CancelFunc) {
					return context.WithTimeout(context.Background(), 10*time.Second)
				}
			}
			ctx, cancel := newCtx()
			defer cancel()

			start := time.Now()
			db, err := postgres.ConnectDB(ctx, tt.config())

			if tt.errIs != nil || tt.errContains != "" {
				require.Error(t, err)
				assert.Nil(t, db)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				if tt.maxElapsed > 0 {
					assert.Less(t, time.Since(start), tt.maxElapsed)
				}
				return
			}

			require.NoError(t, err)
			defer closeTestDB(db)
			tt.validate(t, db)
		})
	}
}

const truncateAll = `TRUNCATE recipe_image_queue, recipes, group_invitations,
	waitlist_invitations, purchase_activations, group_members, groups, users
	RESTART IDENTITY CASCADE`

// setupTestDB connects through ConnectDB and empties every table.
func setupTestDB(tb testing.TB) (*gorm.DB, context.Context) {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	tb.Cleanup(cancel)

	db, err := postgres.ConnectDB(ctx, dbConfig())
	require.NoError(tb, err)
	tb.Cleanup(func() { closeTestDB(db) })

	require.NoError(tb, db.Exec(truncateAll).Error)
	return db, ctx
}

func closeTestDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
