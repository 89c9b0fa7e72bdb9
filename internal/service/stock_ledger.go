package service

import (
	"fmt"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLedger serializes every mutation of a product's stock. Callers open
// the transaction; Ajustar takes a FOR UPDATE lock on the product row, so
// two concurrent operations against the same product serialize at the row
// lock and the second transaction reads whatever the first committed — the
// lock-then-read-then-write pattern that avoids lost updates.
//
// Ajustar only moves the counter. Movimiento and order-line records are the
// callers' responsibility, inside the same transaction.
type StockLedger interface {
	// Ajustar applies stock += delta (delta may be negative) and returns the
	// product snapshot after the write. Returns ErrStockInsuficiente when the
	// result would be negative, leaving the row untouched.
	Ajustar(tx *gorm.DB, productoID uuid.UUID, delta int) (*model.Producto, error)
}

type stockLedger struct {
	productos repository.ProductoRepository
}

func NewStockLedger(productos repository.ProductoRepository) StockLedger {
	return &stockLedger{productos: productos}
}

func (s *stockLedger) Ajustar(tx *gorm.DB, productoID uuid.UUID, delta int) (*model.Producto, error) {
	p, err := s.productos.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, productoID)
	}

	nuevo := p.Stock + delta
	if nuevo < 0 {
		return nil, fmt.Errorf("%w: %s (stock %d, solicitado %d)", ErrStockInsuficiente, p.Nombre, p.Stock, -delta)
	}

	if err := s.productos.UpdateStockTx(tx, productoID, nuevo); err != nil {
		return nil, err
	}
	p.Stock = nuevo
	return p, nil
}
