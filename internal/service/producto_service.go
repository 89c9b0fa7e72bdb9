package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductoService covers the product catalog. Stock itself is never edited
// here: it only moves through movimientos and order dispatch.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
	EliminarCategoria(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	productos  repository.ProductoRepository
	categorias repository.CategoriaRepository
}

func NewProductoService(productos repository.ProductoRepository, categorias repository.CategoriaRepository) ProductoService {
	return &productoService{productos: productos, categorias: categorias}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.Precio.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", ErrPayloadInvalido)
	}
	p := model.Producto{
		Nombre:      req.Nombre,
		Stock:       req.Stock,
		StockMinimo: req.StockMinimo,
		StockMaximo: req.StockMaximo,
		Precio:      req.Precio,
		Unidad:      req.Unidad,
		Proveedor:   req.Proveedor,
		Ubicacion:   req.Ubicacion,
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("%w: categoria_id inválido", ErrPayloadInvalido)
		}
		if _, err := s.categorias.FindByID(ctx, categoriaID); err != nil {
			return nil, fmt.Errorf("%w: categoría %s", ErrProductoNoEncontrado, *req.CategoriaID)
		}
		p.CategoriaID = &categoriaID
	}
	if err := s.productos.Create(ctx, &p); err != nil {
		return nil, err
	}
	log.Info().Str("producto", p.Nombre).Int("stock", p.Stock).Msg("producto creado")
	resp := productoToResponse(&p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, id)
		}
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.productos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar applies a partial update. Stock is intentionally absent from
// the request type.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, id)
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("%w: categoria_id inválido", ErrPayloadInvalido)
		}
		p.CategoriaID = &categoriaID
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.StockMaximo != nil {
		p.StockMaximo = *req.StockMaximo
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", ErrPayloadInvalido)
		}
		p.Precio = *req.Precio
	}
	if req.Unidad != nil {
		p.Unidad = req.Unidad
	}
	if req.Proveedor != nil {
		p.Proveedor = req.Proveedor
	}
	if req.Ubicacion != nil {
		p.Ubicacion = req.Ubicacion
	}
	if err := s.productos.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrProductoNoEncontrado, id)
	}
	return s.productos.Delete(ctx, id)
}

func (s *productoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	c := model.Categoria{Nombre: req.Nombre}
	if err := s.categorias.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre}, nil
}

func (s *productoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.categorias.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for _, c := range categorias {
		out = append(out, dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre})
	}
	return out, nil
}

func (s *productoService) EliminarCategoria(ctx context.Context, id uuid.UUID) error {
	return s.categorias.Delete(ctx, id)
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		StockMaximo: p.StockMaximo,
		Precio:      p.Precio,
		Unidad:      p.Unidad,
		Proveedor:   p.Proveedor,
		Ubicacion:   p.Ubicacion,
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	return resp
}
