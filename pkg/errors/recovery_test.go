package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover(t *testing.T) {
	t.Run("panic becomes PanicError", func(t *testing.T) {
		run := func() (err error) {
			defer Recover(&err, "DecisionTree.Fit")
			panic("index out of range")
		}

		err := run()
		require.Error(t, err)

		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		assert.Equal(t, "DecisionTree.Fit", panicErr.Operation)
		assert.Equal(t, "index out of range", panicErr.PanicValue)
		assert.NotEmpty(t, panicErr.StackTrace)
		assert.Equal(t, "arbor: panic in DecisionTree.Fit: index out of range", panicErr.Error())
		assert.Contains(t, panicErr.String(), "Stack trace:")
	})

	t.Run("no panic leaves error untouched", func(t *testing.T) {
		run := func() (err error) {
			defer Recover(&err, "DecisionTree.Fit")
			return nil
		}
		assert.NoError(t, run())
	})

	t.Run("existing error is kept as cause", func(t *testing.T) {
		original := fmt.Errorf("original error")
		run := func() (err error) {
			defer Recover(&err, "DecisionTree.Fit")
			err = original
			panic("panic after error")
		}

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in DecisionTree.Fit")
		assert.Contains(t, err.Error(), "original error")
		assert.True(t, Is(err, original))
	})
}

func TestSafeExecute(t *testing.T) {
	assert.NoError(t, SafeExecute("op", func() error { return nil }))

	fnErr := fmt.Errorf("function error")
	assert.Equal(t, fnErr, SafeExecute("op", func() error { return fnErr }))

	err := SafeExecute("op", func() error {
		var m map[string]int
		m["x"]++
		return nil
	})
	var panicErr *PanicError
	require.True(t, As(err, &panicErr))
	assert.Equal(t, "op", panicErr.Operation)
}

func BenchmarkSafeExecute_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SafeExecute("BenchmarkOp", func() error { return nil })
	}
}
