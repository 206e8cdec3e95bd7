package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saoPauloSettings() StoreSettings {
	return StoreSettings{
		Timezone: "America/Sao_Paulo",
		Horarios: WeekHours{
			1: {Abre: "09:00", Fecha: "18:00"},
			2: {Abre: "09:00", Fecha: "18:00"},
			6: {Fechado: true},
		},
	}
}

func TestOpenAt(t *testing.T) {
	s := saoPauloSettings()

	// Monday 2025-06-02 12:00 UTC is 09:00 in São Paulo (UTC-3).
	open, err := s.OpenAt(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, open)

	// 21:00 UTC is 18:00 local: the closing minute is already closed.
	open, err = s.OpenAt(time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, open)

	// 11:59 UTC is 08:59 local.
	open, err = s.OpenAt(time.Date(2025, 6, 2, 11, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestOpenAtClosedDay(t *testing.T) {
	s := saoPauloSettings()

	// Saturday is explicitly closed.
	open, err := s.OpenAt(time.Date(2025, 6, 7, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, open)

	// Sunday has no entry at all, which also counts as closed.
	open, err = s.OpenAt(time.Date(2025, 6, 8, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestOpenAtBadConfig(t *testing.T) {
	s := saoPauloSettings()
	s.Timezone = "Mars/Olympus_Mons"
	_, err := s.OpenAt(time.Now())
	assert.Error(t, err)

	s = saoPauloSettings()
	s.Horarios[1] = DayHours{Abre: "9h00", Fecha: "18:00"}
	_, err = s.OpenAt(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}
