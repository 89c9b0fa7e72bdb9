//go:build integration

package service

// stock_ledger_integration_test.go
// Concurrency tests for the stock ledger against real Postgres via
// testcontainers. Run with: go test -tags integration ./internal/service/... -v
//
// The FOR UPDATE row lock is what keeps simultaneous dispatches from driving
// stock negative; only a real database exercises it.

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/infra"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:15-alpine",
		tcPostgres.WithDatabase("mandala_test"),
		tcPostgres.WithUsername("mandala"),
		tcPostgres.WithPassword("mandala"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, pgC)

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func crearProductoDB(t *testing.T, db *gorm.DB, nombre string, stock int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:      nombre,
		Stock:       stock,
		StockMinimo: 1,
		Precio:      decimal.RequireFromString("10.00"),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestLedgerConcurrenteSoloUnDespachoGana(t *testing.T) {
	db := setupLedgerDB(t)
	productos := repository.NewProductoRepository(db)
	ledger := NewStockLedger(productos)

	producto := crearProductoDB(t, db, "Whisky", 10)

	// Two dispatches race for the same units; together they want 12 of 10.
	// The row lock serializes them: one commits, the other reads the updated
	// stock and fails.
	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = db.Transaction(func(tx *gorm.DB) error {
				_, err := ledger.Ajustar(tx, producto.ID, -6)
				return err
			})
		}(i)
	}
	close(start)
	wg.Wait()

	exitos, insuficientes := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			exitos++
		case errors.Is(err, ErrStockInsuficiente):
			insuficientes++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, exitos)
	assert.Equal(t, 1, insuficientes)

	var final model.Producto
	require.NoError(t, db.First(&final, "id = ?", producto.ID).Error)
	assert.Equal(t, 4, final.Stock)
}

func TestLedgerConcurrenteNuncaBajaDeCero(t *testing.T) {
	db := setupLedgerDB(t)
	productos := repository.NewProductoRepository(db)
	ledger := NewStockLedger(productos)

	producto := crearProductoDB(t, db, "Ron", 5)

	// Eight workers each want one of five units.
	const workers = 8
	start := make(chan struct{})
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = db.Transaction(func(tx *gorm.DB) error {
				_, err := ledger.Ajustar(tx, producto.ID, -1)
				return err
			})
		}(i)
	}
	close(start)
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
			continue
		}
		require.ErrorIs(t, err, ErrStockInsuficiente)
	}
	assert.Equal(t, 5, exitos)

	var final model.Producto
	require.NoError(t, db.First(&final, "id = ?", producto.ID).Error)
	assert.Equal(t, 0, final.Stock)
}
