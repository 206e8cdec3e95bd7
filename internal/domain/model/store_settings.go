package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Opening window for one weekday, times as "HH:MM" local to Timezone.
type DayHours struct {
	Abre    string `json:"abre"`
	Fecha   string `json:"fecha"`
	Fechado bool   `json:"fechado"`
}

// WeekHours maps time.Weekday (0=Sunday) to its window.
type WeekHours map[int]DayHours

func (h WeekHours) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (h *WeekHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = WeekHours{}
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("unsupported horarios column type")
	}
}

type StoreSettings struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Horarios  WeekHours `gorm:"type:text;not null" json:"horarios"`
	Timezone  string    `gorm:"type:varchar(64);not null;default:'America/Sao_Paulo'" json:"timezone"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (StoreSettings) TableName() string { return "store_settings" }

// OpenAt reports whether the store is open at t, evaluated in the
// configured timezone. Missing weekday entries count as closed.
func (s StoreSettings) OpenAt(t time.Time) (bool, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return false, fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	local := t.In(loc)

	day, ok := s.Horarios[int(local.Weekday())]
	if !ok || day.Fechado {
		return false, nil
	}

	open, err := minutesOfDay(day.Abre)
	if err != nil {
		return false, err
	}
	closeM, err := minutesOfDay(day.Fecha)
	if err != nil {
		return false, err
	}

	now := local.Hour()*60 + local.Minute()
	return now >= open && now < closeM, nil
}

func minutesOfDay(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(hhmm[:2])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(hhmm[3:])
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	return h*60 + m, nil
}
