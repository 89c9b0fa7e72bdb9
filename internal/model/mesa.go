package model

import (
	"time"

	"github.com/google/uuid"
)

// Mesa estados. Informational only: the authoritative "is this table busy"
// answer comes from querying for an active Pedido on the mesa, not from this
// field, which may lag behind actual order state.
const (
	MesaDisponible = "disponible"
	MesaOcupada    = "ocupada"
)

// Mesa is a physical table (or the bar itself, e.g. numero "BARRA").
type Mesa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    string    `gorm:"uniqueIndex;not null"`
	Capacidad int       `gorm:"not null;default:1"`
	Estado    string    `gorm:"type:varchar(20);not null;default:'disponible'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesa) TableName() string { return "mesas" }
