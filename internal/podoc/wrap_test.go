package podoc

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	assert.Nil(t, chunk("", 50))
	assert.Equal(t, []string{"Widget"}, chunk("Widget", 50))

	exact := strings.Repeat("a", 50)
	assert.Equal(t, []string{exact}, chunk(exact, 50))

	got := chunk(strings.Repeat("b", 101), 50)
	assert.Len(t, got, 3)
	assert.Equal(t, "b", got[2])
}

func TestChunk_CountsRunesAndFlattensNewlines(t *testing.T) {
	got := chunk("héllo\nwörld", 6)
	assert.Equal(t, []string{"héllo ", "wörld"}, got)
}

func TestPaymentTerms(t *testing.T) {
	assert.Equal(t, "Net 30 days", paymentTerms(30, ""))
	assert.Equal(t, "Net 15 days - 2% early pay", paymentTerms(15, "2% early pay"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$100.00", money(decimal.NewFromInt(100)))
	assert.Equal(t, "$36.50", money(decimal.RequireFromString("36.5")))
	assert.Equal(t, "$0.07", money(decimal.RequireFromString("0.066")))
}
