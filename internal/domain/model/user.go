package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Lightweight account keyed by phone number. Created explicitly via the
// registration endpoint or implicitly the first time a PIN is set after
// a purchase.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Telefone  string    `gorm:"type:varchar(15);not null;uniqueIndex" json:"telefone"`
	PinHash   string    `gorm:"column:pin_hash;not null" json:"-"`
	Nome      string    `gorm:"type:varchar(255)" json:"nome"`
	CPF       string    `gorm:"type:varchar(14)" json:"cpf"`
	Endereco  Address   `gorm:"embedded;embeddedPrefix:endereco_" json:"endereco"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }
