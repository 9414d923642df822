package vault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrencyDepositAndTake(t *testing.T) {
	v := NewCurrency("xrd")
	require.NoError(t, v.Deposit(Funds("xrd", 100)))
	require.EqualValues(t, 100, v.Amount())

	cut, err := v.Take(30)
	require.NoError(t, err)
	require.EqualValues(t, 30, cut.Amount())
	require.EqualValues(t, 70, v.Amount())

	_, err = v.Take(71)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.EqualValues(t, 70, v.Amount())

	_, err = v.Take(-1)
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCurrencyDepositDrainsSource(t *testing.T) {
	v := NewCurrency("xrd")
	from := Funds("xrd", 50)
	require.NoError(t, v.Deposit(from))
	require.EqualValues(t, 0, from.Amount())
}

func TestCurrencyDenomMismatch(t *testing.T) {
	v := NewCurrency("xrd")
	err := v.Deposit(Funds("doge", 10))
	require.ErrorIs(t, err, ErrDenomMismatch)
	require.EqualValues(t, 0, v.Amount())
}

func TestCurrencyTakeAll(t *testing.T) {
	v := Funds("xrd", 42)
	out := v.TakeAll()
	require.EqualValues(t, 42, out.Amount())
	require.EqualValues(t, 0, v.Amount())

	again := v.TakeAll()
	require.EqualValues(t, 0, again.Amount())
}

func TestItemsTakeOnce(t *testing.T) {
	v := NewItems()
	require.NoError(t, v.Put("a"))
	require.ErrorIs(t, v.Put("a"), ErrItemAlreadyHeld)
	require.True(t, v.Contains("a"))

	require.NoError(t, v.Take("a"))
	require.ErrorIs(t, v.Take("a"), ErrItemNotHeld)
	require.False(t, v.Contains("a"))
}

func TestItemsTakeAll(t *testing.T) {
	v := NewItems()
	require.NoError(t, v.Put("a"))
	require.NoError(t, v.Put("b"))

	out := v.TakeAll()
	require.Len(t, out, 2)
	require.Zero(t, v.Len())
}
