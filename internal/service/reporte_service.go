package service

import (
	"context"
	"strings"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"
)

// ReporteService produces the sales reports. Cancelled orders never count.
type ReporteService interface {
	// TotalesPorActor lists every mesera and every active system user with
	// their (possibly zero) sales total for the given day, meseras first.
	TotalesPorActor(ctx context.Context, fecha string) ([]dto.TotalPorActorResponse, error)
	VentasDiarias(ctx context.Context, desde, hasta string) ([]dto.VentaDiariaResponse, error)
}

type reporteService struct {
	reportes repository.ReporteRepository
}

func NewReporteService(reportes repository.ReporteRepository) ReporteService {
	return &reporteService{reportes: reportes}
}

func (s *reporteService) TotalesPorActor(ctx context.Context, fecha string) ([]dto.TotalPorActorResponse, error) {
	meseras, err := s.reportes.TotalesPorMesera(ctx, fecha)
	if err != nil {
		return nil, err
	}
	usuarios, err := s.reportes.TotalesPorUsuario(ctx, fecha)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TotalPorActorResponse, 0, len(meseras)+len(usuarios))
	for _, row := range meseras {
		out = append(out, dto.TotalPorActorResponse{
			ActorID:      "mesera-" + row.ActorID,
			ActorNombre:  strings.ToUpper(row.ActorNombre),
			Tipo:         "mesera",
			TotalVendido: row.TotalVendido,
		})
	}
	for _, row := range usuarios {
		out = append(out, dto.TotalPorActorResponse{
			ActorID:      "usuario-" + row.ActorID,
			ActorNombre:  nombreSistema(row.ActorNombre),
			Tipo:         "usuario",
			TotalVendido: row.TotalVendido,
		})
	}
	return out, nil
}

func (s *reporteService) VentasDiarias(ctx context.Context, desde, hasta string) ([]dto.VentaDiariaResponse, error) {
	rows, err := s.reportes.VentasDiarias(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaDiariaResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.VentaDiariaResponse{
			Fecha:        r.Fecha,
			TotalVendido: r.TotalVendido,
			Pedidos:      r.Pedidos,
		})
	}
	return out, nil
}

// nombreSistema maps well-known system usernames to their display labels;
// anything else is just upper-cased like mesera names are.
func nombreSistema(username string) string {
	switch username {
	case "admin":
		return "ADMINISTRADOR"
	case "barra":
		return "BARTENDER"
	default:
		return strings.ToUpper(username)
	}
}
