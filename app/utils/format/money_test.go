package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFormat(t *testing.T) {
	m := NewMoney("$")

	assert.Equal(t, "$1,234.50", m.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", m.Format(decimal.Zero))
	assert.Equal(t, "$1,000,000.00", m.Format(decimal.NewFromInt(1000000)))
}
