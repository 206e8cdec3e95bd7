package model

import "time"

type OutboxKind string

const (
	OutboxPedidoPagoNotificar OutboxKind = "pedido_pago_notificar"
	OutboxBaixaEstoque        OutboxKind = "baixa_estoque"
	OutboxStatusAlterado      OutboxKind = "status_alterado"
)

// Persisted side-effect intent. Written in the same transaction as the
// state change that requires it, processed by a retrying worker.
type OutboxEvent struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PedidoID      int64      `gorm:"not null;index" json:"pedido_id"`
	Kind          OutboxKind `gorm:"type:varchar(40);not null" json:"kind"`
	PayloadJSON   string     `gorm:"type:text;not null" json:"payload_json"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt time.Time  `gorm:"not null;index" json:"next_attempt_at"`
	ProcessedAt   *time.Time `json:"processed_at"`
	LastError     string     `gorm:"type:text" json:"last_error"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }
