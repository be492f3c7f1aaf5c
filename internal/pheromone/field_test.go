package pheromone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func almostEqual(t *testing.T, want, got, tol float64) {
	t.Helper()
	if math.Abs(want-got) > tol {
		t.Fatalf("want %v got %v (tol %v)", want, got, tol)
	}
}

func newField(t *testing.T, w, h int, alpha, evap float64) *Field {
	t.Helper()
	f, err := New(Config{Width: w, Height: h, Types: []string{"trail"}, Alpha: alpha, Evaporation: evap})
	require.NoError(t, err)
	return f
}

// S3 — diffusion mass with alpha=0.1, evaporation=0.
func TestDiffusionMassConservation(t *testing.T) {
	f := newField(t, 11, 11, 0.1, 0)
	require.NoError(t, f.Deposit("trail", 5, 5, 10.0))

	summary, err := f.UpdateAndSwap()
	require.NoError(t, err)
	almostEqual(t, 10.0, summary["trail"].MassAfter, 1e-6)

	grid, ok := f.FieldFor("trail")
	require.True(t, ok)
	almostEqual(t, 6.0, float64(grid.At(5, 5)), 1e-5)
	almostEqual(t, 1.0, float64(grid.At(4, 5)), 1e-5)
	almostEqual(t, 1.0, float64(grid.At(6, 5)), 1e-5)
	almostEqual(t, 1.0, float64(grid.At(5, 4)), 1e-5)
	almostEqual(t, 1.0, float64(grid.At(5, 6)), 1e-5)
}

// S4 — pure evaporation, no diffusion.
func TestEvaporationDecay(t *testing.T) {
	f := newField(t, 5, 5, 0, 0.02)
	require.NoError(t, f.Deposit("trail", 0, 0, 100))
	for i := 0; i < 10; i++ {
		_, err := f.UpdateAndSwap()
		require.NoError(t, err)
	}
	grid, _ := f.FieldFor("trail")
	want := 100 * math.Pow(1-0.02, 10)
	almostEqual(t, want, float64(grid.At(0, 0)), 1e-3)
}

func TestMassInvariantUnderPureDiffusion(t *testing.T) {
	f := newField(t, 9, 9, 0.2, 0)
	require.NoError(t, f.Deposit("trail", 3, 3, 42))
	_, err := f.UpdateAndSwap()
	require.NoError(t, err)

	stats := f.Stats()
	before := stats["trail"].Sum

	for i := 0; i < 5; i++ {
		_, err := f.UpdateAndSwap()
		require.NoError(t, err)
	}
	after := f.Stats()["trail"].Sum
	almostEqual(t, before, after, 1e-3)
}

func TestDepositOutOfBoundsIsDropped(t *testing.T) {
	f := newField(t, 3, 3, 0.1, 0)
	require.NoError(t, f.Deposit("trail", -1, 0, 5))
	require.NoError(t, f.Deposit("trail", 3, 3, 5))
	summary, err := f.UpdateAndSwap()
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary["trail"].Deposited)
}

func TestDepositNonPositiveAmountIsDropped(t *testing.T) {
	f := newField(t, 3, 3, 0.1, 0)
	require.NoError(t, f.Deposit("trail", 1, 1, 0))
	require.NoError(t, f.Deposit("trail", 1, 1, -3))
	summary, err := f.UpdateAndSwap()
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary["trail"].Deposited)
}

func TestUnknownTypeDynamicAllocation(t *testing.T) {
	f, err := New(Config{Width: 4, Height: 4, AllowDynamicTypes: true})
	require.NoError(t, err)
	require.NoError(t, f.Deposit("hunger", 0, 0, 3))
	_, ok := f.FieldFor("hunger")
	assert.True(t, ok)
}

func TestUnknownTypeRejectedWithoutDynamicTypes(t *testing.T) {
	f, err := New(Config{Width: 4, Height: 4, AllowDynamicTypes: false})
	require.NoError(t, err)
	err = f.Deposit("hunger", 0, 0, 3)
	assert.Error(t, err)
}

func TestAlphaZeroOnlyEvaporatesAndDeposits(t *testing.T) {
	f := newField(t, 5, 5, 0, 0.1)
	require.NoError(t, f.Deposit("trail", 2, 2, 10))
	_, err := f.UpdateAndSwap()
	require.NoError(t, err)
	grid, _ := f.FieldFor("trail")
	almostEqual(t, 9.0, float64(grid.At(2, 2)), 1e-5)
	almostEqual(t, 0.0, float64(grid.At(1, 2)), 1e-9)
}

func TestInvalidParamsRejected(t *testing.T) {
	f := newField(t, 3, 3, 0.3, 0)
	_, err := f.UpdateAndSwap()
	assert.Error(t, err)

	f2 := newField(t, 3, 3, 0.1, 1.0)
	_, err = f2.UpdateAndSwap()
	assert.Error(t, err)
}
