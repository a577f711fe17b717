package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mizu-in-go/db"
	"mizu-in-go/pkg/config"
	"mizu-in-go/pkg/ledger"
	"mizu-in-go/pkg/server"
	"mizu-in-go/pkg/server/endpoints"
)

const testJWTSecret = "integration-jwt-secret"

// TestContext holds all the resources needed for integration tests: a real
// postgres database, the server under test, and fakes for the two external
// services (the credit ledger and the drink machines).
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	Server      *server.Server
	ServerSrv   *httptest.Server
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client

	FakeLedger *FakeLedger
	Drops      *DropRecorder
}

// NewTestContext starts a postgres container, runs the embedded migrations
// against it, and assembles an in-process server wired to fake collaborators.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("mizu_test"),
		tcpostgres.WithUsername("mizu"),
		tcpostgres.WithPassword("mizu"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://mizu:mizu@%s:%s/mizu_test?sslmode=disable", host, port.Port())

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := gormDB.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	// The server reads the JWT secret from the environment at assembly time
	_ = os.Setenv("MIZU_JWT_SECRET", testJWTSecret)

	fakeLedger := NewFakeLedger("integration-ledger-token")
	drops := NewDropRecorder()

	cfg, err := config.Load()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// The real ledger client against the fake ledger service
	credits := ledger.NewClient(fakeLedger.Srv.URL, fakeLedger.Token)

	s := server.NewServer(gormDB, cfg, credits, drops, "127.0.0.1", "0")
	endpoints.RegisterAll(s)

	srv := httptest.NewServer(s.Router)

	return &TestContext{
		DB:          gormDB,
		RawDB:       rawDB,
		Container:   pgContainer,
		Server:      s,
		ServerSrv:   srv,
		ServerURL:   srv.URL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		FakeLedger:  fakeLedger,
		Drops:       drops,
	}, nil
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.ServerSrv != nil {
		tc.ServerSrv.Close()
	}
	if tc.FakeLedger != nil {
		tc.FakeLedger.Close()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// Reset clears all rows and fake state between scenarios
func (tc *TestContext) Reset() error {
	if _, err := tc.RawDB.Exec(`TRUNCATE slots, items, machines RESTART IDENTITY CASCADE`); err != nil {
		return err
	}
	tc.FakeLedger.Reset()
	tc.Drops.Reset()
	return nil
}

// runMigrations applies the embedded schema migrations
func runMigrations(dbURL string) error {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return err
	}

	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
