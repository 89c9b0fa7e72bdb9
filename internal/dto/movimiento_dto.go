package dto

// CrearMovimientoRequest registers a manual stock adjustment. Tipo must be
// exactly "entrada" or "salida". Cantidad is validated again in the service
// layer so malformed payloads are rejected before any transaction opens.
type CrearMovimientoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Tipo       string `json:"tipo"        validate:"required,oneof=entrada salida"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
	Motivo     string `json:"motivo"      validate:"required"`
	Usuario    string `json:"usuario"     validate:"required"`
}

type MovimientoResponse struct {
	ID         string `json:"id"`
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto"`
	Tipo       string `json:"tipo"`
	Cantidad   int    `json:"cantidad"`
	Motivo     string `json:"motivo"`
	Usuario    string `json:"usuario"`
	CreatedAt  string `json:"created_at"`
}

// CrearMovimientoResponse returns both the audit entry and the product
// snapshot after the adjustment, in one payload.
type CrearMovimientoResponse struct {
	Movimiento MovimientoResponse `json:"movimiento"`
	Producto   ProductoResponse   `json:"producto"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// AlertaStockResponse flags a product at or below its minimum stock level.
type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}
