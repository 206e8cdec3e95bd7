package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusConfirmado      OrderStatus = "confirmado"
	StatusPreparando      OrderStatus = "preparando"
	StatusGuardando       OrderStatus = "guardando"
	StatusPostado         OrderStatus = "postado"
	StatusEmTransito      OrderStatus = "em_transito"
	StatusSaiuParaEntrega OrderStatus = "saiu_para_entrega"
	StatusEntregue        OrderStatus = "entregue"
	StatusCancelado       OrderStatus = "cancelado"
)

// Business-terminal states: no automatic transition may ever leave them.
func (s OrderStatus) Terminal() bool {
	return s == StatusEntregue || s == StatusCancelado
}

type Address struct {
	CEP         string `gorm:"type:varchar(9)" json:"cep"`
	Rua         string `gorm:"type:varchar(255)" json:"rua"`
	Numero      string `gorm:"type:varchar(20)" json:"numero"`
	Complemento string `gorm:"type:varchar(100)" json:"complemento"`
	Bairro      string `gorm:"type:varchar(100)" json:"bairro"`
	Cidade      string `gorm:"type:varchar(100)" json:"cidade"`
	Estado      string `gorm:"type:varchar(2)" json:"estado"`
}

// Snapshot of one line item at checkout time, prices in centavos.
type OrderItem struct {
	Nome          string `json:"nome"`
	Quantidade    int64  `json:"quantidade"`
	PrecoUnitario int64  `json:"preco_unitario"`
	Sabor         string `json:"sabor,omitempty"`
}

// OrderItems is stored as a JSON text column.
type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	b, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (i *OrderItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*i = OrderItems{}
		return nil
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return errors.New("unsupported itens column type")
	}
}

type Order struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	NumeroPedido string      `gorm:"type:varchar(20);not null;uniqueIndex" json:"numero_pedido"`
	TxID         string      `gorm:"type:varchar(128);index" json:"txid"`
	E2EID        string      `gorm:"type:varchar(64)" json:"e2e_id"`
	Gateway      string      `gorm:"type:varchar(20)" json:"gateway"`
	Paid         bool        `gorm:"not null;default:false" json:"paid"`
	PaidAt       *time.Time  `json:"paid_at"`
	NomeCliente  string      `gorm:"type:varchar(255);not null" json:"nome_cliente"`
	CPFCliente   string      `gorm:"type:varchar(14)" json:"cpf_cliente"`
	Telefone     string      `gorm:"type:varchar(15);not null;index" json:"telefone"`
	Endereco     Address     `gorm:"embedded;embeddedPrefix:endereco_" json:"endereco"`
	Itens        OrderItems  `gorm:"type:text;not null" json:"itens"`
	ValorTotal   int64       `gorm:"not null" json:"valor_total"`
	Status       OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	// Null until the customer authenticates post-purchase, then backfilled.
	UserID *int64 `gorm:"index" json:"user_id"`

	// Durable scheduling columns; both NULL when nothing is armed.
	NextTransitionAt *time.Time   `gorm:"index" json:"next_transition_at"`
	NextTransitionTo *OrderStatus `gorm:"type:varchar(30)" json:"next_transition_to"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "pedidos" }
