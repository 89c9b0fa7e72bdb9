package repository

import (
	"context"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeseraRepository interface {
	Create(ctx context.Context, m *model.Mesera) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mesera, error)
	List(ctx context.Context) ([]model.Mesera, error)
	Update(ctx context.Context, m *model.Mesera) error
	UpdateCodigo(ctx context.Context, id uuid.UUID, codigo string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type meseraRepo struct{ db *gorm.DB }

func NewMeseraRepository(db *gorm.DB) MeseraRepository { return &meseraRepo{db: db} }

func (r *meseraRepo) Create(ctx context.Context, m *model.Mesera) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *meseraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mesera, error) {
	var m model.Mesera
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *meseraRepo) List(ctx context.Context) ([]model.Mesera, error) {
	var meseras []model.Mesera
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&meseras).Error
	return meseras, err
}

func (r *meseraRepo) Update(ctx context.Context, m *model.Mesera) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *meseraRepo) UpdateCodigo(ctx context.Context, id uuid.UUID, codigo string) error {
	return r.db.WithContext(ctx).Model(&model.Mesera{}).Where("id = ?", id).Update("codigo", codigo).Error
}

func (r *meseraRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Mesera{}, "id = ?", id).Error
}
