package service

import (
	"testing"

	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ListOptions
		want store.Page
	}{
		{"defaults", ListOptions{}, store.Page{Limit: DefaultPageSize}},
		{"within bounds", ListOptions{Limit: 10, Offset: 30}, store.Page{Limit: 10, Offset: 30}},
		{"clamped to max", ListOptions{Limit: 1000, Offset: 5}, store.Page{Limit: MaxPageSize, Offset: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := &ValidationError{}
			require.Equal(t, tt.want, parsePage(tt.in, verr))
			require.Empty(t, verr.Fields)
		})
	}

	t.Run("negative values", func(t *testing.T) {
		verr := &ValidationError{}
		got := parsePage(ListOptions{Limit: -1, Offset: -4}, verr)
		require.Equal(t, store.Page{Limit: DefaultPageSize}, got)
		require.True(t, verr.Has("limit"))
		require.True(t, verr.Has("offset"))
	})
}
