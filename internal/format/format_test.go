package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3500", "R$ 3.500,00"},
		{"1500.50", "R$ 1.500,50"},
		{"0", "R$ 0,00"},
		{"1234567.89", "R$ 1.234.567,89"},
	}
	for _, c := range cases {
		v, err := decimal.NewFromString(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, Currency(v), "Currency(%s)", c.in)
	}
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "5511999999999", CleanPhone("+55 (11) 99999-9999"))
	assert.Equal(t, "", CleanPhone("abc"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "(11) 99999-9999", Phone("5511999999999"))
	// anything that is not 55+DDD+9 digits passes through untouched
	assert.Equal(t, "11999999999", Phone("11999999999"))
}
