package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// MeseraService manages waitresses and their PIN codes. Codes are stored as
// bcrypt hashes; records created before hashing existed still hold plaintext
// codes, which migrate to hashes transparently on their next successful
// verification.
type MeseraService interface {
	Crear(ctx context.Context, req dto.CrearMeseraRequest) (*dto.MeseraResponse, error)
	Listar(ctx context.Context) ([]dto.MeseraResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	CambiarCodigo(ctx context.Context, id uuid.UUID, codigo string) error

	// VerificarCodigo returns the mesera whose code matches, or
	// ErrCredencialesInvalidas. It never reveals which mesera was close.
	VerificarCodigo(ctx context.Context, codigo string) (*dto.MeseraResponse, error)
}

type meseraService struct {
	meseras repository.MeseraRepository
}

func NewMeseraService(meseras repository.MeseraRepository) MeseraService {
	return &meseraService{meseras: meseras}
}

func (s *meseraService) Crear(ctx context.Context, req dto.CrearMeseraRequest) (*dto.MeseraResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Codigo), bcryptCost)
	if err != nil {
		return nil, err
	}
	m := model.Mesera{Nombre: req.Nombre, Codigo: string(hash)}
	if err := s.meseras.Create(ctx, &m); err != nil {
		return nil, err
	}
	log.Info().Str("mesera", m.Nombre).Msg("mesera creada")
	return &dto.MeseraResponse{ID: m.ID.String(), Nombre: m.Nombre}, nil
}

func (s *meseraService) Listar(ctx context.Context) ([]dto.MeseraResponse, error) {
	meseras, err := s.meseras.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MeseraResponse, 0, len(meseras))
	for _, m := range meseras {
		out = append(out, dto.MeseraResponse{ID: m.ID.String(), Nombre: m.Nombre})
	}
	return out, nil
}

func (s *meseraService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.meseras.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrMeseraNoEncontrada, id)
	}
	return s.meseras.Delete(ctx, id)
}

func (s *meseraService) CambiarCodigo(ctx context.Context, id uuid.UUID, codigo string) error {
	if _, err := s.meseras.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrMeseraNoEncontrada, id)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(codigo), bcryptCost)
	if err != nil {
		return err
	}
	return s.meseras.UpdateCodigo(ctx, id, string(hash))
}

func (s *meseraService) VerificarCodigo(ctx context.Context, codigo string) (*dto.MeseraResponse, error) {
	meseras, err := s.meseras.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range meseras {
		if s.codigoCoincide(ctx, &meseras[i], codigo) {
			return &dto.MeseraResponse{ID: meseras[i].ID.String(), Nombre: meseras[i].Nombre}, nil
		}
	}
	return nil, ErrCredencialesInvalidas
}

// codigoCoincide handles both stored forms. A plaintext match rewrites the
// record with a bcrypt hash, so each legacy code migrates exactly once.
func (s *meseraService) codigoCoincide(ctx context.Context, m *model.Mesera, codigo string) bool {
	if esHashBcrypt(m.Codigo) {
		return bcrypt.CompareHashAndPassword([]byte(m.Codigo), []byte(codigo)) == nil
	}
	if m.Codigo != codigo {
		return false
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(codigo), bcryptCost); err == nil {
		if err := s.meseras.UpdateCodigo(ctx, m.ID, string(hash)); err != nil {
			log.Warn().Err(err).Str("mesera", m.Nombre).Msg("no se pudo migrar el código a hash")
		} else {
			log.Info().Str("mesera", m.Nombre).Msg("código migrado a hash")
		}
	}
	return true
}

func esHashBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
