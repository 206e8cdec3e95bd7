package model

import "time"

// Append-only audit trail of every status an order passed through.
// Automatico separates scheduler-driven entries from admin edits.
type StatusHistory struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	PedidoID   int64       `gorm:"not null;index" json:"pedido_id"`
	Status     OrderStatus `gorm:"type:varchar(30);not null" json:"status"`
	Observacao string      `gorm:"type:text" json:"observacao"`
	Automatico bool        `gorm:"not null;default:false" json:"automatico"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (StatusHistory) TableName() string { return "status_historico" }
