package model

import "time"

// Per-provider credentials. Which fields are used depends on the provider's
// auth scheme (OAuth client-credentials, static key or public/secret pair).
type GatewayConfig struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider     string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"provider"`
	BaseURL      string    `gorm:"type:varchar(255);not null" json:"base_url"`
	ClientID     string    `gorm:"type:varchar(255)" json:"-"`
	ClientSecret string    `gorm:"type:varchar(255)" json:"-"`
	APIKey       string    `gorm:"type:varchar(255)" json:"-"`
	PublicKey    string    `gorm:"type:varchar(255)" json:"-"`
	Ativo        bool      `gorm:"not null;default:false" json:"ativo"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (GatewayConfig) TableName() string { return "payment_gateways" }
