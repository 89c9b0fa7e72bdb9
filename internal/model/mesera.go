package model

import (
	"time"

	"github.com/google/uuid"
)

// Mesera is a waitress identified at the floor by a short numeric PIN.
// Codigo holds a bcrypt hash; legacy rows may still contain the plaintext
// PIN and are rewritten to a hash the first time they verify successfully
// (see service.MeseraService.VerificarCodigo).
type Mesera struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Codigo    string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesera) TableName() string { return "meseras" }
