package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperate(t *testing.T) {
	tests := []struct {
		a, b float64
		op   byte
		want float64
	}{
		{2, 3, '+', 5},
		{2, 3, '-', -1},
		{2, 3, '*', 6},
		{3, 2, '/', 1.5},
		{200, 10, '%', 20},
		{50, 4, '%', 2},
	}
	for _, tt := range tests {
		got, err := Operate(tt.a, tt.b, tt.op)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "%v %c %v", tt.a, tt.op, tt.b)
	}

	_, err := Operate(1, 0, '/')
	assert.ErrorIs(t, err, ErrDivideByZero)
	_, err = Operate(1, 2, '^')
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestEval(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"", "0"},
		{"007", "7"},
		{"1.5.5", "1.55"},
		{"12+3", "15"},
		{"2+3*4", "20"}, // left to right, like the keypad
		{"9-+2", "11"},  // repeated operator replaces the pending one
		{"200%10", "20"},
		{".5+.5", "1"},
		{"123<<", "1"},
		{"5<", "0"},
		{"12+3C", "0"},
		{"0.1+0.2", "0.30000000000000004"},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			got, err := Eval(tt.keys)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_DivideByZero(t *testing.T) {
	got, err := Eval("8/0")
	assert.ErrorIs(t, err, ErrDivideByZero)
	assert.Equal(t, ErrorDisplay, got)

	got, err = Eval("8/0+1")
	assert.ErrorIs(t, err, ErrDivideByZero)
	assert.Equal(t, ErrorDisplay, got)
}

func TestEval_UnknownKey(t *testing.T) {
	_, err := Eval("2x3")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestAccumulator_RecoversAfterError(t *testing.T) {
	var a Accumulator
	for _, k := range []byte("4/0") {
		require.NoError(t, a.Press(k))
	}
	require.ErrorIs(t, a.Equals(), ErrDivideByZero)
	assert.Equal(t, ErrorDisplay, a.Display())

	require.NoError(t, a.Press('6'))
	assert.Equal(t, "6", a.Display())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1e+21", Format(1e21))
	assert.Equal(t, "-2.5", Format(-2.5))
}
