package sale

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRate(t *testing.T, value float64) VATRate {
	t.Helper()
	rate, err := NewVATRateFromFloat(value)
	require.NoError(t, err)
	return rate
}

func TestNewVATRate(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero rate", 0, false},
		{"standard rate", 0.18, false},
		{"full rate", 1, false},
		{"negative rate", -0.01, true},
		{"rate above one", 1.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVATRateFromFloat(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputeTax(t *testing.T) {
	t.Run("100 at 18 percent", func(t *testing.T) {
		breakdown, err := ComputeTax(decimal.NewFromInt(100), mustRate(t, 0.18))
		require.NoError(t, err)

		assert.Equal(t, "100.00", breakdown.Subtotal.String())
		assert.Equal(t, "18.00", breakdown.VATAmount.String())
		assert.Equal(t, "118.00", breakdown.Total.String())
	})

	t.Run("rates other than the default", func(t *testing.T) {
		tests := []struct {
			subtotal  string
			rate      float64
			vatAmount string
			total     string
		}{
			{"50", 0.18, "9.00", "59.00"},
			{"75", 0.18, "13.50", "88.50"},
			{"20", 0.18, "3.60", "23.60"},
			{"100", 0.07, "7.00", "107.00"},
			{"33.33", 0.21, "7.00", "40.33"},
			{"99.99", 0.05, "5.00", "104.99"},
			{"100", 0, "0.00", "100.00"},
			{"100", 1, "100.00", "200.00"},
		}

		for _, tt := range tests {
			subtotal, err := decimal.NewFromString(tt.subtotal)
			require.NoError(t, err)

			breakdown, err := ComputeTax(subtotal, mustRate(t, tt.rate))
			require.NoError(t, err)
			assert.Equal(t, tt.vatAmount, breakdown.VATAmount.String(), "vat of %s at %v", tt.subtotal, tt.rate)
			assert.Equal(t, tt.total, breakdown.Total.String(), "total of %s at %v", tt.subtotal, tt.rate)
		}
	})

	t.Run("rounding applies to the VAT amount only", func(t *testing.T) {
		// 10.01 * 0.175 = 1.75175 -> 1.75; total = 10.01 + 1.75,
		// not round2(10.01 * 1.175) computed in one step.
		breakdown, err := ComputeTax(decimal.NewFromFloat(10.01), mustRate(t, 0.175))
		require.NoError(t, err)

		assert.Equal(t, "1.75", breakdown.VATAmount.String())
		assert.Equal(t, "11.76", breakdown.Total.String())
	})

	t.Run("half-cent boundary rounds away from zero", func(t *testing.T) {
		// 0.25 * 0.18 = 0.045 exactly; decimal arithmetic makes the tie
		// deterministic where binary floats would not be.
		breakdown, err := ComputeTax(decimal.NewFromFloat(0.25), mustRate(t, 0.18))
		require.NoError(t, err)

		assert.Equal(t, "0.05", breakdown.VATAmount.String())
	})

	t.Run("total is never below the subtotal", func(t *testing.T) {
		subtotals := []string{"0", "0.01", "19.99", "1234.56"}
		rates := []float64{0, 0.05, 0.18, 0.25, 1}

		for _, s := range subtotals {
			for _, r := range rates {
				subtotal, err := decimal.NewFromString(s)
				require.NoError(t, err)

				breakdown, err := ComputeTax(subtotal, mustRate(t, r))
				require.NoError(t, err)
				assert.True(t, breakdown.Total.GreaterThanOrEqual(breakdown.Subtotal),
					"total %s < subtotal %s at rate %v", breakdown.Total, breakdown.Subtotal, r)
			}
		}
	})

	t.Run("negative subtotal is rejected", func(t *testing.T) {
		_, err := ComputeTax(decimal.NewFromInt(-1), mustRate(t, 0.18))
		assert.Error(t, err)
	})
}
