package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
)

func TestToIssues(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, toIssues(nil))
	})

	t.Run("field errors", func(t *testing.T) {
		var b criterio.FieldErrorsBuilder
		b = b.Append("search.debounce", fmt.Errorf("too short"))
		b = b.Append("tui.theme", fmt.Errorf("unknown theme"))

		issues := toIssues(b.ToError())
		assert.Equal(t, []validationIssue{
			{Field: "search.debounce", Message: "too short"},
			{Field: "tui.theme", Message: "unknown theme"},
		}, issues)
	})

	t.Run("plain error", func(t *testing.T) {
		issues := toIssues(errors.New("boom"))
		assert.Equal(t, []validationIssue{{Field: "config", Message: "boom"}}, issues)
	})
}
