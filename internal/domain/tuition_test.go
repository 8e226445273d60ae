package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLateFeeFor(t *testing.T) {
	tests := []struct {
		name       string
		setting    *SppSetting
		paymentDay int
		expected   decimal.Decimal
	}{
		{
			name: "No fee configured",
			setting: &SppSetting{
				MonthlyAmount: decimal.NewFromInt(150000),
				DueDay:        10,
				LateFeeType:   LateFeeTypeNone,
			},
			paymentDay: 28,
			expected:   decimal.Zero,
		},
		{
			name: "Payment on the due day",
			setting: &SppSetting{
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     LateFeeTypeFixed,
				LateFeeAmount:   decimal.NewFromInt(10000),
				LateFeeStartDay: 15,
			},
			paymentDay: 10,
			expected:   decimal.Zero,
		},
		{
			name: "Payment after due day but before fee start day",
			setting: &SppSetting{
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     LateFeeTypeFixed,
				LateFeeAmount:   decimal.NewFromInt(10000),
				LateFeeStartDay: 15,
			},
			paymentDay: 12,
			expected:   decimal.Zero,
		},
		{
			name: "Fixed fee from the start day",
			setting: &SppSetting{
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     LateFeeTypeFixed,
				LateFeeAmount:   decimal.NewFromInt(10000),
				LateFeeStartDay: 15,
			},
			paymentDay: 15,
			expected:   decimal.NewFromInt(10000),
		},
		{
			name: "Percentage fee of the monthly rate",
			setting: &SppSetting{
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     LateFeeTypePercentage,
				LateFeeAmount:   decimal.NewFromInt(2),
				LateFeeStartDay: 15,
			},
			paymentDay: 20,
			expected:   decimal.NewFromInt(3000),
		},
		{
			name: "Percentage fee rounds to two decimal places",
			setting: &SppSetting{
				MonthlyAmount:   decimal.NewFromInt(155555),
				DueDay:          10,
				LateFeeType:     LateFeeTypePercentage,
				LateFeeAmount:   decimal.RequireFromString("1.5"),
				LateFeeStartDay: 15,
			},
			paymentDay: 28,
			expected:   decimal.RequireFromString("2333.33"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := tt.setting.LateFeeFor(tt.paymentDay)
			assert.True(t, fee.Equal(tt.expected), "expected %s, got %s", tt.expected, fee)
		})
	}
}
