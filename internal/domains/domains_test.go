package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripesIsWithin(t *testing.T) {
	f := StripesFactory{}
	for v := 0; v <= 10; v++ {
		in := v >= 4 && v <= 8
		got := f.Abstract(v).IsWithin(f.AbstractRange(4, 9))
		assert.Equalf(t, in, got, "value %d", v)
	}
}

func TestStripesAddSubSoundness(t *testing.T) {
	f := StripesFactory{}
	x := f.AbstractRange(2, 6)
	y := f.Abstract(1, 2, 3)
	result := x.Add(y).Sub(y)
	assert.True(t, x.IsWithin(result), "interval arithmetic must over-approximate: %s not within %s", x, result)
}

func TestStripesOrdering(t *testing.T) {
	f := StripesFactory{}
	assert.True(t, f.AbstractRange(4, 6).Lt(f.Abstract(6)).Equal(StripesYES))
	assert.True(t, f.AbstractRange(4, 6).Lt(f.Abstract(5)).Equal(StripesMAYBE))
	assert.True(t, f.Abstract(5).Lt(f.AbstractRange(4, 6)).Equal(StripesNO))
}

func TestStripesBisectSingleton(t *testing.T) {
	f := StripesFactory{}
	_, _, ok := f.Abstract(5).Bisect()
	require.False(t, ok)
}

func TestStripesBisectJoinsBack(t *testing.T) {
	f := StripesFactory{}
	v := f.AbstractRange(0, 10)
	lo, hi, ok := v.Bisect()
	require.True(t, ok)
	assert.NotEqual(t, 0, len(lo.intervals))
	assert.NotEqual(t, 0, len(hi.intervals))
	assert.True(t, lo.Join(hi).IsWithin(v))
	assert.True(t, v.IsWithin(lo.Join(hi).JoinAdjacent()))
}

func TestStripesJoinAdjacent(t *testing.T) {
	f := StripesFactory{}
	joined := f.AbstractRange(0, 4).Join(f.AbstractRange(4, 8)).JoinAdjacent()
	assert.True(t, joined.Equal(f.AbstractRange(0, 8)))
}

func TestSignMultiplication(t *testing.T) {
	assert.Equal(t, SignYES, SignYES.Mul(SignYES))
	assert.Equal(t, SignNEG, SignYES.Mul(SignNEG))
	assert.Equal(t, SignYES, SignNEG.Mul(SignNEG))
	assert.Equal(t, SignNO, SignNO.Mul(Sign{Minus: true, Plus: true}))
}

func TestSignNegation(t *testing.T) {
	full := Sign{Minus: true, Zero: true, Plus: true}
	assert.Equal(t, full, full.Neg())
	assert.Equal(t, SignNEG, SignYES.Neg())
}

func TestSignBisectSingleton(t *testing.T) {
	_, _, ok := SignYES.Bisect()
	require.False(t, ok)
}
