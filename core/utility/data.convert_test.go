package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFloat(t *testing.T) {
	t.Run("comma decimal string", func(t *testing.T) {
		f := SafeFloat("12,5")
		require.NotNil(t, f)
		assert.Equal(t, 12.5, *f)
	})

	t.Run("dot decimal string", func(t *testing.T) {
		f := SafeFloat(" 31.90 ")
		require.NotNil(t, f)
		assert.Equal(t, 31.9, *f)
	})

	t.Run("native float", func(t *testing.T) {
		f := SafeFloat(420.0)
		require.NotNil(t, f)
		assert.Equal(t, 420.0, *f)
	})

	t.Run("empty and garbage return nil", func(t *testing.T) {
		assert.Nil(t, SafeFloat(""))
		assert.Nil(t, SafeFloat("   "))
		assert.Nil(t, SafeFloat("abc"))
		assert.Nil(t, SafeFloat(nil))
	})
}

func TestSafeInt(t *testing.T) {
	i := SafeInt("2025")
	require.NotNil(t, i)
	assert.Equal(t, 2025, *i)

	assert.Nil(t, SafeInt("n/a"))
}

func TestSafeString(t *testing.T) {
	s := SafeString("  CEPLAC  ")
	require.NotNil(t, s)
	assert.Equal(t, "CEPLAC", *s)

	assert.Nil(t, SafeString(""))
	assert.Nil(t, SafeString(nil))
}

func TestParseDate(t *testing.T) {
	t.Run("iso layout", func(t *testing.T) {
		d, err := ParseDate("2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("brazilian layout", func(t *testing.T) {
		d, err := ParseDate("01/03/2025")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("datetime string keeps date prefix", func(t *testing.T) {
		d, err := ParseDate("2025-03-01 00:00:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("excel serial number", func(t *testing.T) {
		d, err := ParseDate("45731")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("excel serial with time fraction keeps the date", func(t *testing.T) {
		d, err := ParseDate("45731.5")
		require.NoError(t, err)
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, time.March, d.Month())
		assert.Equal(t, 15, d.Day())
	})

	t.Run("non-positive serial", func(t *testing.T) {
		_, err := ParseDate("0")
		assert.Error(t, err)
		_, err = ParseDate("-12")
		assert.Error(t, err)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := ParseDate("março de 2025")
		assert.Error(t, err)
	})
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "preco_unitario_brl_kg", NormalizeHeader("  Preco Unitario BRL kg "))
	assert.Equal(t, "data_pedido", NormalizeHeader("Data Pedido"))
}
