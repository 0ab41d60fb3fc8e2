package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

func row(i int) *int { return &i }

func TestViolations_Error(t *testing.T) {
	t.Run("returns default message when no violations", func(t *testing.T) {
		var vs validator.Violations
		assert.Equal(t, "validation failed", vs.Error())
	})

	t.Run("formats kind, column and row", func(t *testing.T) {
		var vs validator.Violations
		vs.Add(validator.Violation{
			Column:  "age",
			Row:     row(3),
			Kind:    validator.KindType,
			Message: "age expects int",
		})
		assert.Equal(t, "validation failed: [type] age row 3: age expects int", vs.Error())
	})

	t.Run("omits missing column and row", func(t *testing.T) {
		vs := validator.Violations{{Kind: validator.KindAggregate, Message: "mean too low"}}
		assert.Equal(t, "validation failed: [aggregate]: mean too low", vs.Error())
	})

	t.Run("joins multiple violations", func(t *testing.T) {
		vs := validator.Violations{
			{Column: "a", Kind: validator.KindRange, Message: "too small"},
			{Column: "b", Kind: validator.KindLength, Message: "too long"},
		}
		msg := vs.Error()
		assert.Contains(t, msg, "[range] a: too small")
		assert.Contains(t, msg, "[length] b: too long")
	})
}

func TestViolations_Lookup(t *testing.T) {
	vs := validator.Violations{
		{Column: "salary", Row: row(4), Kind: validator.KindRange, Message: "too low"},
		{Column: "salary", Row: row(1), Kind: validator.KindNullability, Message: "null"},
		{Column: "name", Row: row(1), Kind: validator.KindLength, Message: "too short"},
		{Kind: validator.KindAggregate, Message: "mean"},
	}

	t.Run("has", func(t *testing.T) {
		assert.True(t, vs.Has("salary"))
		assert.False(t, vs.Has("age"))
	})

	t.Run("get returns messages in order", func(t *testing.T) {
		assert.Equal(t, []string{"too low", "null"}, vs.Get("salary"))
		assert.Nil(t, vs.Get("age"))
	})

	t.Run("for column", func(t *testing.T) {
		assert.Len(t, vs.ForColumn("salary"), 2)
	})

	t.Run("by kind", func(t *testing.T) {
		assert.Len(t, vs.ByKind(validator.KindLength), 1)
		assert.True(t, vs.HasKind(validator.KindAggregate))
		assert.False(t, vs.HasKind(validator.KindStructural))
	})

	t.Run("columns are distinct in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"salary", "name"}, vs.Columns())
	})

	t.Run("rows are distinct and sorted", func(t *testing.T) {
		assert.Equal(t, []int{1, 4}, vs.Rows())
	})

	t.Run("is empty", func(t *testing.T) {
		assert.False(t, vs.IsEmpty())
		assert.True(t, validator.Violations{}.IsEmpty())
	})
}

func TestExtractViolations(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, validator.ExtractViolations(nil))
		assert.False(t, validator.IsViolations(nil))
	})

	t.Run("returns nil for unrelated error", func(t *testing.T) {
		err := errors.New("boom")
		assert.Nil(t, validator.ExtractViolations(err))
		assert.False(t, validator.IsViolations(err))
	})

	t.Run("unwraps wrapped violations", func(t *testing.T) {
		vs := validator.Violations{{Column: "a", Kind: validator.KindRange, Message: "x"}}
		err := fmt.Errorf("load employees: %w", vs)

		got := validator.ExtractViolations(err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].Column)
		assert.True(t, validator.IsViolations(err))
	})
}
