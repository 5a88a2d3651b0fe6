package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errSample = &Error{Message: "sample %s failed"}
	errOther  = &Error{Message: "other"}
)

func TestErrorIs(t *testing.T) {
	formatted := errSample.Fmt("thing")

	assert.Equal(t, "sample thing failed", formatted.Error())
	assert.ErrorIs(t, formatted, errSample)
	assert.NotErrorIs(t, formatted, errOther)

	wrapped := fmt.Errorf("outer: %w", formatted)
	assert.ErrorIs(t, wrapped, errSample)
}

func TestErrorWrap(t *testing.T) {
	err := errOther.Wrap(os.ErrNotExist)

	assert.Equal(t, "other: "+os.ErrNotExist.Error(), err.Error())
	assert.ErrorIs(t, err, errOther)
	assert.ErrorIs(t, err, os.ErrNotExist)

	chained := errOther.Wrap(os.ErrPermission).Fmt()
	assert.ErrorIs(t, chained, errOther)
	assert.True(t, errors.Is(chained, os.ErrPermission))
}
