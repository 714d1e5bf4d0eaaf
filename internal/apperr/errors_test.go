package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbckr/namescout/internal/apperr"
)

func TestSentinels_Distinct(t *testing.T) {
	all := []error{apperr.ErrInvalidInput, apperr.ErrRequestFailed, apperr.ErrInputUnreadable, apperr.ErrReportWrite}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinels_Wrapped(t *testing.T) {
	err := fmt.Errorf("%w: open domains.txt: no such file", apperr.ErrInputUnreadable)
	assert.ErrorIs(t, err, apperr.ErrInputUnreadable)
	assert.NotErrorIs(t, err, apperr.ErrReportWrite)
}
