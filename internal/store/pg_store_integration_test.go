package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	peterrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/pet"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "PETSTORE_SKIP_INTEGRATION_TESTS"

// PetStoreSuite is a test suite for the PostgreSQL PetStore implementation.
type PetStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer // PostgreSQL container for integration tests
	dbPool      *pgxpool.Pool               // PostgreSQL connection pool
	store       PetStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite initializes the test suite by setting up a PostgreSQL container.
func (s *PetStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "pets_db"
	dbUser := "user"
	dbPassword := "password"

	// 1. Start a PostgreSQL container with the specified configuration. Wait for the container to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		// Wait for a specific log message indicating the database service is ready.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		// Ensure the container is ready to accept connections on the default PostgreSQL port.
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. create a new pgxpool instance using the connection string
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	// 3.1 Ping the database to ensure the connection is established
	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Database migration
	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../migrations")
	sourceURL := "file://" + migrationsPath
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for PetStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *PetStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info("DB pool closed.")
	}
	if s.pgContainer != nil {
		s.logger.Info("Terminating PostgreSQL container...")
		err := s.pgContainer.Terminate(s.ctx)
		if err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		} else {
			s.logger.Info("PostgreSQL container terminated.")
		}
	}
}

// SetupTest prepares the database for each test by truncating the pets table.
func (s *PetStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE pets CASCADE")
	require.NoError(s.T(), err, "Failed to truncate pets table")
}

// TestPetStoreIntegration runs the PetStore integration tests.
func TestPetStoreIntegration(t *testing.T) {
	// Skip integration tests if the environment variable is set
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// Run the test suite
	suite.Run(t, new(PetStoreSuite))
}

// createTestPet is a helper to persist a pet for test setup.
func (s *PetStoreSuite) createTestPet(p pet.Pet) pet.Pet {
	s.T().Helper()
	created, err := s.store.Create(s.ctx, p)
	require.NoError(s.T(), err, "createTestPet helper failed to create pet")
	return *created
}

func (s *PetStoreSuite) TestCreateAndFindByID() {
	s.SetupTest()
	// given
	created := s.createTestPet(pet.Pet{Name: "fido", Category: "dog", Available: true, Gender: pet.Male})
	require.NotEmpty(s.T(), created.ID)

	// when
	found, err := s.store.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), created.ID, found.ID)
	require.Equal(s.T(), "fido", found.Name)
	require.Equal(s.T(), "dog", found.Category)
	require.True(s.T(), found.Available)
	require.Equal(s.T(), pet.Male, found.Gender)
}

func (s *PetStoreSuite) TestFindByID_NotFound() {
	s.SetupTest()
	// when
	_, err := s.store.FindByID(s.ctx, "missing")

	// then
	require.ErrorIs(s.T(), err, peterrors.ErrPetNotFound)
}

func (s *PetStoreSuite) TestFindAll_InsertionOrder() {
	s.SetupTest()
	// given
	first := s.createTestPet(pet.Pet{Name: "a"})
	second := s.createTestPet(pet.Pet{Name: "b"})
	third := s.createTestPet(pet.Pet{Name: "c"})

	// when
	list, err := s.store.FindAll(s.ctx)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	require.Equal(s.T(), first.ID, list[0].ID)
	require.Equal(s.T(), second.ID, list[1].ID)
	require.Equal(s.T(), third.ID, list[2].ID)
}

func (s *PetStoreSuite) TestFilters() {
	s.SetupTest()
	// given
	s.createTestPet(pet.Pet{Name: "fido", Category: "dog", Available: true, Gender: pet.Male})
	s.createTestPet(pet.Pet{Name: "kitty", Category: "cat", Available: false, Gender: pet.Female})
	s.createTestPet(pet.Pet{Name: "fido", Category: "cat", Available: true})

	// when / then
	byName, err := s.store.FindByName(s.ctx, "fido")
	require.NoError(s.T(), err)
	require.Len(s.T(), byName, 2)

	byCategory, err := s.store.FindByCategory(s.ctx, "cat")
	require.NoError(s.T(), err)
	require.Len(s.T(), byCategory, 2)

	byAvailability, err := s.store.FindByAvailability(s.ctx, false)
	require.NoError(s.T(), err)
	require.Len(s.T(), byAvailability, 1)
	require.Equal(s.T(), "kitty", byAvailability[0].Name)

	byGender, err := s.store.FindByGender(s.ctx, "FEMALE")
	require.NoError(s.T(), err)
	require.Len(s.T(), byGender, 1)
	require.Equal(s.T(), "kitty", byGender[0].Name)

	// A name outside the closed set matches nothing.
	outside, err := s.store.FindByGender(s.ctx, "DOG")
	require.NoError(s.T(), err)
	require.Empty(s.T(), outside)
}

func (s *PetStoreSuite) TestUpdate() {
	s.SetupTest()
	// given
	created := s.createTestPet(pet.Pet{Name: "fido", Category: "dog"})

	// when
	created.Category = "unknown"
	created.Available = true
	updated, err := s.store.Update(s.ctx, created)

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), created.ID, updated.ID)
	require.Equal(s.T(), "unknown", updated.Category)
	require.True(s.T(), updated.Available)
}

func (s *PetStoreSuite) TestUpdate_NotFound() {
	s.SetupTest()
	// when
	_, err := s.store.Update(s.ctx, pet.Pet{ID: "missing", Name: "x"})

	// then
	require.ErrorIs(s.T(), err, peterrors.ErrPetNotFound)
}

func (s *PetStoreSuite) TestDelete_Idempotent() {
	s.SetupTest()
	// given
	created := s.createTestPet(pet.Pet{Name: "fido"})

	// when
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, created.ID))

	// then
	_, err := s.store.FindByID(s.ctx, created.ID)
	require.ErrorIs(s.T(), err, peterrors.ErrPetNotFound)

	// deleting again is not an error
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, created.ID))
}

func (s *PetStoreSuite) TestDeleteAll() {
	s.SetupTest()
	// given
	s.createTestPet(pet.Pet{Name: "a"})
	s.createTestPet(pet.Pet{Name: "b"})

	// when
	require.NoError(s.T(), s.store.DeleteAll(s.ctx))

	// then
	list, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	require.Empty(s.T(), list)
}
