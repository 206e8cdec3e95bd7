package model

import "time"

// One row per automatic hop: after MinutosEspera at StatusAtual the order
// moves to ProximoStatus. A status without an active row is terminal for
// scheduling purposes.
type StatusTransition struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	StatusAtual   OrderStatus `gorm:"type:varchar(30);not null;uniqueIndex" json:"status_atual"`
	ProximoStatus OrderStatus `gorm:"type:varchar(30);not null" json:"proximo_status"`
	MinutosEspera int         `gorm:"not null" json:"minutos_espera"`
	Ativo         bool        `gorm:"not null;default:true" json:"ativo"`
	CreatedAt     time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (StatusTransition) TableName() string { return "config_status_tempo" }
