package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

// TestMain starts a disposable MongoDB container. When Docker is not reachable
// the integration tests skip and the unit tests still run.
func TestMain(m *testing.M) {
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Printf("Docker is not available, skipping MongoDB integration tests")
		os.Exit(m.Run())
	}
	pool.MaxWait = 90 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("Could not start MongoDB resource: %s", err)
		os.Exit(m.Run())
	}

	uri := fmt.Sprintf("mongodb://root:password@%s/?authSource=admin", resource.GetHostPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("atreo_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func requireDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testDB == nil {
		t.Skip("MongoDB container not available")
	}
	return testDB
}

func TestUserRepository_Integration(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db, logger.NewNop())

	user := &domain.User{
		OrganizationID: "org-1",
		Name:           "Jane",
		Email:          "  Jane@Example.com ",
		PasswordHash:   "hash",
		Role:           domain.RoleManager,
		Permissions:    domain.Permissions{domain.ModuleEmployees: {"list": {Read: true}}},
		IsActive:       true,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	dup := *user
	dup.ID = ""
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	found, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.Permissions[domain.ModuleEmployees]["list"].Read)

	require.NoError(t, repo.MarkEmailVerified(ctx, user.ID))
	found, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)

	users, total, err := repo.List(ctx, domain.UserFilter{ListFilter: domain.ListFilter{OrganizationID: "org-1", Search: "jane"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentRepository_Integration(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := NewPaymentRepository(db, logger.NewNop())

	paidAt := time.Now().UTC()
	salary := &domain.Payment{
		OrganizationID: "org-2",
		Type:           domain.PaymentSalary,
		EmployeeID:     "emp-1",
		Period:         "2024-06",
		Amount:         decimal.RequireFromString("2500.00"),
		Currency:       "USD",
		Method:         domain.MethodBankTransfer,
		Status:         domain.PaymentCompleted,
		PaidAt:         &paidAt,
	}
	require.NoError(t, repo.Create(ctx, salary))

	again := *salary
	again.ID = ""
	assert.ErrorIs(t, repo.Create(ctx, &again), domain.ErrConflict)

	for _, amount := range []string{"40.25", "59.75"} {
		p := &domain.Payment{
			OrganizationID: "org-2",
			Type:           domain.PaymentInvoice,
			InvoiceID:      "inv-1",
			Amount:         decimal.RequireFromString(amount),
			Method:         domain.MethodCard,
			Status:         domain.PaymentCompleted,
			PaidAt:         &paidAt,
		}
		require.NoError(t, repo.Create(ctx, p))
	}

	sum, err := repo.SumCompletedForInvoice(ctx, "inv-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(sum), sum.String())

	month, err := repo.SumCompleted(ctx, "org-2", paidAt.Add(-time.Hour), paidAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), month.Count)
	assert.True(t, decimal.RequireFromString("2600").Equal(month.Amount), month.Amount.String())
}

func TestInvoiceRepository_TotalsByStatus_Integration(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := NewInvoiceRepository(db, logger.NewNop())

	for i, status := range []domain.InvoiceStatus{domain.InvoicePending, domain.InvoicePending, domain.InvoicePaid} {
		inv := &domain.Invoice{
			OrganizationID: "org-3",
			InvoiceNumber:  fmt.Sprintf("INV-%d", i),
			VendorName:     "Acme",
			Total:          decimal.NewFromInt(50),
			Status:         status,
		}
		require.NoError(t, inv.Validate())
		require.NoError(t, repo.Create(ctx, inv))
	}

	totals, err := repo.TotalsByStatus(ctx, "org-3")
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals[domain.InvoicePending].Count)
	assert.True(t, decimal.NewFromInt(100).Equal(totals[domain.InvoicePending].Amount))
	assert.Equal(t, int64(1), totals[domain.InvoicePaid].Count)
}
