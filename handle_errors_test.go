package eventuals_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeandnode/eventuals"
)

// oddError is a comparable payload error carrying the rejected value.
type oddError struct {
	n int
}

func (e oddError) Error() string {
	return fmt.Sprintf("odd number: %d", e.n)
}

// Not parallel: the test drives [eventuals.Idle], which observes
// process-wide quiescence.
func TestHandleErrorsFiltersErrors(t *testing.T) {
	ctx := t.Context()

	writer, numbers := eventuals.New[int]()
	defer writer.Close()

	validated := eventuals.Map(numbers, func(_ context.Context, n int) eventuals.Try[int] {
		if n%2 != 0 {
			return eventuals.Failure[int](oddError{n: n})
		}

		return eventuals.Ok(n)
	})

	var (
		mu   sync.Mutex
		odds []int
	)

	evens := eventuals.HandleErrors(validated, func(err error) {
		var oe oddError
		if assert.ErrorAs(t, err, &oe) {
			mu.Lock()
			odds = append(odds, oe.n)
			mu.Unlock()
		}
	})

	numbers.Close()
	validated.Close()
	defer evens.Close()

	for n := 0; n <= 10; n++ {
		writer.Write(n)

		// Values propagate through background tasks; await quiescence
		// before asserting on the latest snapshot.
		require.NoError(t, eventuals.Idle(ctx))

		v, ok := evens.ValueImmediate()
		require.True(t, ok)
		assert.Equal(t, (n/2)*2, v)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 3, 5, 7, 9}, odds)
}
