package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// usuarioDefault is one declaratively seeded system user.
type usuarioDefault struct {
	Username string
	Nombre   string
	Password string
	Rol      string
}

var usuariosDefault = []usuarioDefault{
	{Username: "admin", Nombre: "Administrador", Password: "admin123", Rol: "admin"},
	{Username: "barra", Nombre: "Bartender", Password: "barra123", Rol: "bartender"},
	{Username: "prueba", Nombre: "Usuario de Prueba", Password: "prueba123", Rol: "bartender"},
}

var categoriasDefault = []string{"Cervezas", "Varios"}

// BootstrapService seeds the declarative defaults: system users, the floor
// plan (mesas 1..20 plus BARRA) and the base categories. Every step is
// idempotent — existing rows are left alone, so it runs safely on every
// startup.
type BootstrapService interface {
	Run(ctx context.Context) error
}

type bootstrapService struct {
	usuarios   repository.UsuarioRepository
	mesas      repository.MesaRepository
	categorias repository.CategoriaRepository
}

func NewBootstrapService(
	usuarios repository.UsuarioRepository,
	mesas repository.MesaRepository,
	categorias repository.CategoriaRepository,
) BootstrapService {
	return &bootstrapService{usuarios: usuarios, mesas: mesas, categorias: categorias}
}

func (s *bootstrapService) Run(ctx context.Context) error {
	if err := s.seedUsuarios(ctx); err != nil {
		return fmt.Errorf("bootstrap usuarios: %w", err)
	}
	if err := s.seedMesas(ctx); err != nil {
		return fmt.Errorf("bootstrap mesas: %w", err)
	}
	if err := s.seedCategorias(ctx); err != nil {
		return fmt.Errorf("bootstrap categorias: %w", err)
	}
	log.Info().Msg("bootstrap completado")
	return nil
}

func (s *bootstrapService) seedUsuarios(ctx context.Context) error {
	for _, u := range usuariosDefault {
		if _, err := s.usuarios.FindByUsername(ctx, u.Username); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return err
		}
		usuario := model.Usuario{
			Username:     u.Username,
			Nombre:       u.Nombre,
			PasswordHash: string(hash),
			Rol:          u.Rol,
			Activo:       true,
		}
		if err := s.usuarios.Create(ctx, &usuario); err != nil {
			return err
		}
		log.Info().Str("username", u.Username).Str("rol", u.Rol).Msg("usuario por defecto creado")
	}
	return nil
}

func (s *bootstrapService) seedMesas(ctx context.Context) error {
	numeros := make([]string, 0, 21)
	for i := 1; i <= 20; i++ {
		numeros = append(numeros, strconv.Itoa(i))
	}
	numeros = append(numeros, "BARRA")

	for _, numero := range numeros {
		if _, err := s.mesas.FindByNumero(ctx, numero); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		mesa := model.Mesa{Numero: numero, Capacidad: 4, Estado: model.MesaDisponible}
		if numero == "BARRA" {
			mesa.Capacidad = 1
		}
		if err := s.mesas.Create(ctx, &mesa); err != nil {
			return err
		}
	}
	return nil
}

func (s *bootstrapService) seedCategorias(ctx context.Context) error {
	existentes, err := s.categorias.List(ctx)
	if err != nil {
		return err
	}
	porNombre := make(map[string]bool, len(existentes))
	for _, c := range existentes {
		porNombre[c.Nombre] = true
	}
	for _, nombre := range categoriasDefault {
		if porNombre[nombre] {
			continue
		}
		if err := s.categorias.Create(ctx, &model.Categoria{Nombre: nombre}); err != nil {
			return err
		}
	}
	return nil
}
