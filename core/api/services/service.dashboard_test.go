package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariationPct(t *testing.T) {
	v := VariationPct(150.0, 100.0)
	require.NotNil(t, v)
	assert.Equal(t, 50.0, *v)

	v = VariationPct(80.0, 100.0)
	require.NotNil(t, v)
	assert.Equal(t, -20.0, *v)

	v = VariationPct(101.0, 3.0)
	require.NotNil(t, v)
	assert.Equal(t, 3266.67, *v)

	assert.Nil(t, VariationPct(100.0, nil))
	assert.Nil(t, VariationPct(100.0, 0))
	assert.Nil(t, VariationPct(100.0, 0.0))
}

func TestVariationPctNilCurrent(t *testing.T) {
	v := VariationPct(nil, 100.0)
	require.NotNil(t, v)
	assert.Equal(t, -100.0, *v)
}

func TestVariationPctIntInputs(t *testing.T) {
	v := VariationPct(int32(12), int64(10))
	require.NotNil(t, v)
	assert.Equal(t, 20.0, *v)
}

func TestMonthWindow(t *testing.T) {
	start, end := monthWindow(2025, 3)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 31, end.Day())
	assert.True(t, end.Before(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthWindowDecember(t *testing.T) {
	start, end := monthWindow(2024, 12)

	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.December, end.Month())
}

func TestPreviousWindowMirrorsLength(t *testing.T) {
	start := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	prevStart, prevEnd := previousWindow(start, end)

	assert.True(t, prevEnd.Before(start))
	assert.Equal(t, end.Sub(start), prevEnd.Sub(prevStart))
}

func TestParticipationPct(t *testing.T) {
	assert.Equal(t, 25.0, participationPct(50.0, 200))
	assert.Equal(t, 33.33, participationPct(1.0, 3))
	assert.Equal(t, 0.0, participationPct(10.0, 0))
	assert.Equal(t, 0.0, participationPct(nil, 100))
}

func TestPrecoMedioGroupFields(t *testing.T) {
	assert.Equal(t, "tipo_produto", precoMedioGroupFields["produto"])
	assert.Equal(t, "canal", precoMedioGroupFields["canal"])
	assert.Equal(t, "regiao_destino", precoMedioGroupFields["regiao"])

	_, ok := precoMedioGroupFields["cidade"]
	assert.False(t, ok)
}
