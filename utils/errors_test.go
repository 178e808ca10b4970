package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	conflict := NewError(KindConflict, "Table is already in use by another person.")

	tests := []struct {
		name      string
		err       error
		overrides map[ErrorKind]int
		want      int
	}{
		{"not found", NewError(KindNotFound, "gone"), nil, http.StatusNotFound},
		{"validation", ValidationError("bad"), nil, http.StatusBadRequest},
		{"invalid state", NewError(KindInvalidState, "closed"), nil, http.StatusConflict},
		{"wrapped", fmt.Errorf("claim: %w", conflict), nil, http.StatusConflict},
		{"override", conflict, map[ErrorKind]int{KindConflict: http.StatusForbidden}, http.StatusForbidden},
		{"override other kind", conflict, map[ErrorKind]int{KindNotFound: http.StatusTeapot}, http.StatusConflict},
		{"plain error", errors.New("db down"), nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err, tt.overrides))
		})
	}
}

func TestAppErrorIs(t *testing.T) {
	sentinel := NewError(KindForbidden, "Table is locked")
	wrapped := fmt.Errorf("claim T1: %w", sentinel)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, wrapped, NewError(KindForbidden, "Table is locked"))
	assert.NotErrorIs(t, wrapped, NewError(KindForbidden, "other"))

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindForbidden, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
