package eventuals_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeandnode/eventuals"
)

func TestJoinValues(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	writerA, a := eventuals.New[string]()
	writerB, b := eventuals.New[int]()
	defer a.Close()
	defer b.Close()
	defer writerA.Close()
	defer writerB.Close()

	writerA.Write("a")
	writerB.Write(1)

	joined := eventuals.Join2[string, int](a, b)
	defer joined.Close()

	reader := joined.Subscribe()
	defer reader.Close()

	v, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple2[string, int]{A: "a", B: 1}, v)

	// The post-barrier update path is separate code; exercise it too.
	writerA.Write("A")

	v, err = reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple2[string, int]{A: "A", B: 1}, v)

	writerB.Write(2)

	v, err = reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple2[string, int]{A: "A", B: 2}, v)
}

func TestJoinWaitsForAllInputs(t *testing.T) {
	t.Parallel()

	writerA, a := eventuals.New[string]()
	writerB, b := eventuals.New[int]()
	defer a.Close()
	defer b.Close()
	defer writerA.Close()
	defer writerB.Close()

	joined := eventuals.Join2[string, int](a, b)
	defer joined.Close()

	reader := joined.Subscribe()
	defer reader.Close()

	writerA.Write("a")
	requirePends(t, reader)

	writerB.Write(1)

	v, err := reader.Next(t.Context())
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple2[string, int]{A: "a", B: 1}, v)
}

func TestJoinClosedInputKeepsLastValue(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	writerA, a := eventuals.New[string]()
	writerB, b := eventuals.New[int]()
	defer a.Close()
	defer b.Close()

	writerA.Write("a")
	writerB.Write(1)

	joined := eventuals.Join2[string, int](a, b)
	defer joined.Close()

	reader := joined.Subscribe()
	defer reader.Close()

	v, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple2[string, int]{A: "a", B: 1}, v)

	// A closed input keeps contributing its last value.
	writerB.Close()
	writerA.Write("A")

	v, err = reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple2[string, int]{A: "A", B: 1}, v)

	writerA.Close()

	_, err = reader.Next(ctx)
	require.ErrorIs(t, err, eventuals.ErrClosed)
}

func TestJoinClosesWhenInputClosesBarren(t *testing.T) {
	t.Parallel()

	writerA, a := eventuals.New[string]()
	writerB, b := eventuals.New[int]()
	defer a.Close()
	defer b.Close()
	defer writerB.Close()

	writerB.Write(1)

	joined := eventuals.Join2[string, int](a, b)
	defer joined.Close()

	reader := joined.Subscribe()
	defer reader.Close()

	// The pair can never be completed once an input closes empty.
	writerA.Close()

	_, err := reader.Next(t.Context())
	require.ErrorIs(t, err, eventuals.ErrClosed)
}

func TestJoin3(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	writerA, a := eventuals.New[string]()
	writerB, b := eventuals.New[int]()
	writerC, c := eventuals.New[bool]()
	defer a.Close()
	defer b.Close()
	defer c.Close()
	defer writerA.Close()
	defer writerB.Close()
	defer writerC.Close()

	writerA.Write("a")
	writerB.Write(1)
	writerC.Write(true)

	joined := eventuals.Join3[string, int, bool](a, b, c)
	defer joined.Close()

	reader := joined.Subscribe()
	defer reader.Close()

	v, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple3[string, int, bool]{A: "a", B: 1, C: true}, v)

	writerC.Write(false)

	v, err = reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, eventuals.Tuple3[string, int, bool]{A: "a", B: 1, C: false}, v)
}
