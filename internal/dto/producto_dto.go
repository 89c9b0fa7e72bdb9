package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=120"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	Stock       int             `json:"stock"        validate:"min=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
	StockMaximo int             `json:"stock_maximo" validate:"min=0"`
	Precio      decimal.Decimal `json:"precio"       validate:"required"`
	Unidad      *string         `json:"unidad"`
	Proveedor   *string         `json:"proveedor"`
	Ubicacion   *string         `json:"ubicacion"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=120"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
	StockMaximo *int             `json:"stock_maximo" validate:"omitempty,min=0"`
	Precio      *decimal.Decimal `json:"precio"`
	Unidad      *string          `json:"unidad"`
	Proveedor   *string          `json:"proveedor"`
	Ubicacion   *string          `json:"ubicacion"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	CategoriaID *string         `json:"categoria_id"`
	Categoria   *string         `json:"categoria"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stock_minimo"`
	StockMaximo int             `json:"stock_maximo"`
	Precio      decimal.Decimal `json:"precio"`
	Unidad      *string         `json:"unidad"`
	Proveedor   *string         `json:"proveedor"`
	Ubicacion   *string         `json:"ubicacion"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Categorías ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=60"`
}

type CategoriaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
