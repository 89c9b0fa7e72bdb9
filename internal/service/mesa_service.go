package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaService manages the tables and derives their occupancy. Occupancy is a
// read-side projection over active pedidos inside the recency window, not the
// mesa's stored estado field.
type MesaService interface {
	Crear(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error)
	Listar(ctx context.Context) ([]dto.MesaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	// Ocupacion reports, per mesa, who holds its most recent active pedido.
	Ocupacion(ctx context.Context) ([]dto.OcupacionMesaResponse, error)
}

type mesaService struct {
	mesas   repository.MesaRepository
	pedidos repository.PedidoRepository
	ventana time.Duration
}

func NewMesaService(mesas repository.MesaRepository, pedidos repository.PedidoRepository, ventana time.Duration) MesaService {
	if ventana <= 0 {
		ventana = 24 * time.Hour
	}
	return &mesaService{mesas: mesas, pedidos: pedidos, ventana: ventana}
}

func (s *mesaService) Crear(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error) {
	m := model.Mesa{
		Numero:    req.Numero,
		Capacidad: req.Capacidad,
		Estado:    model.MesaDisponible,
	}
	if err := s.mesas.Create(ctx, &m); err != nil {
		return nil, err
	}
	resp := mesaToResponse(&m)
	return &resp, nil
}

func (s *mesaService) Listar(ctx context.Context) ([]dto.MesaResponse, error) {
	mesas, err := s.mesas.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		out = append(out, mesaToResponse(&mesas[i]))
	}
	return out, nil
}

func (s *mesaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error) {
	m, err := s.mesas.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMesaNoEncontrada, id)
	}
	if req.Numero != nil {
		m.Numero = *req.Numero
	}
	if req.Capacidad != nil {
		m.Capacidad = *req.Capacidad
	}
	if req.Estado != nil {
		m.Estado = *req.Estado
	}
	if err := s.mesas.Update(ctx, m); err != nil {
		return nil, err
	}
	resp := mesaToResponse(m)
	return &resp, nil
}

func (s *mesaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.mesas.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrMesaNoEncontrada, id)
	}
	return s.mesas.Delete(ctx, id)
}

// Ocupacion scans every mesa for its most recent active pedido within the
// window. A mesa whose last active pedido is older than the window reads as
// vacant even if that pedido was never closed out.
func (s *mesaService) Ocupacion(ctx context.Context) ([]dto.OcupacionMesaResponse, error) {
	mesas, err := s.mesas.List(ctx)
	if err != nil {
		return nil, err
	}
	desde := time.Now().Add(-s.ventana)

	out := make([]dto.OcupacionMesaResponse, 0, len(mesas))
	for i := range mesas {
		entry := dto.OcupacionMesaResponse{
			MesaID: mesas[i].ID.String(),
			Numero: mesas[i].Numero,
		}
		pedido, err := s.pedidos.FindActivoPorMesa(ctx, mesas[i].ID, desde)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			out = append(out, entry)
			continue
		}

		pedidoID := pedido.ID.String()
		entry.PedidoID = &pedidoID

		// The id is namespaced with the actor type, so a mesera and a usuario
		// sharing a raw UUID could never read as the same occupant.
		switch {
		case pedido.MeseraID != nil:
			tipo := "mesera"
			taggedID := fmt.Sprintf("mesera-%s", pedido.MeseraID)
			entry.Tipo = &tipo
			entry.OcupadaPorID = &taggedID
			if pedido.Mesera != nil {
				entry.OcupadaPor = &pedido.Mesera.Nombre
			}
		case pedido.UsuarioID != nil:
			tipo := "usuario"
			taggedID := fmt.Sprintf("usuario-%s", pedido.UsuarioID)
			entry.Tipo = &tipo
			entry.OcupadaPorID = &taggedID
			if pedido.Usuario != nil {
				// System accounts show their role name, same as in reports.
				nombre := nombreSistema(pedido.Usuario.Username)
				entry.OcupadaPor = &nombre
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func mesaToResponse(m *model.Mesa) dto.MesaResponse {
	return dto.MesaResponse{
		ID:        m.ID.String(),
		Numero:    m.Numero,
		Capacidad: m.Capacidad,
		Estado:    m.Estado,
	}
}
