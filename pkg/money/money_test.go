package money_test

import (
	"testing"

	"github.com/LerianStudio/ledger-engine/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMajor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    money.Minor
		wantErr bool
	}{
		{name: "whole amount", input: "12", want: 1200},
		{name: "two fraction digits", input: "12.34", want: 1234},
		{name: "single fraction digit is padded", input: "12.3", want: 1230},
		{name: "zero", input: "0", want: 0},
		{name: "negative amount", input: "-5.00", want: -500},
		{name: "too many fraction digits rejected", input: "1.234", wantErr: true},
		{name: "garbage input rejected", input: "not-a-number", wantErr: true},
		{name: "empty string rejected", input: "", wantErr: true},
		{name: "overflowing amount rejected", input: "999999999999999999999.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := money.ParseMajor(tt.input, money.EUR)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinor_FormatMajor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12.34", money.Minor(1234).FormatMajor(money.EUR))
	assert.Equal(t, "0.00", money.Minor(0).FormatMajor(money.EUR))
	assert.Equal(t, "-5.00", money.Minor(-500).FormatMajor(money.EUR))
}

func TestMinor_NegAbs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, money.Minor(-500), money.Minor(500).Neg())
	assert.Equal(t, money.Minor(500), money.Minor(-500).Neg())
	assert.Equal(t, money.Minor(500), money.Minor(-500).Abs())
	assert.Equal(t, money.Minor(500), money.Minor(500).Abs())
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	got, err := money.ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, money.EUR, got)

	_, err = money.ParseCurrency("USD")
	require.Error(t, err)
}
