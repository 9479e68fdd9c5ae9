package handlers_test

import (
	"testing"

	"github.com/lmarenco/eventreg/internal/http/handlers"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, perPage, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 25, 1},
		{25, 1, 25},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := handlers.TotalPages(tt.count, tt.perPage); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.perPage, got, tt.want)
		}
	}
}

func TestNextPrevPage(t *testing.T) {
	if got := handlers.NextPage(2, 3); got == nil || *got != 3 {
		t.Errorf("NextPage(2, 3) = %v, want 3", got)
	}

	if got := handlers.NextPage(3, 3); got != nil {
		t.Errorf("NextPage(3, 3) = %d, want nil", *got)
	}

	if got := handlers.PrevPage(1); got != nil {
		t.Errorf("PrevPage(1) = %d, want nil", *got)
	}

	if got := handlers.PrevPage(2); got == nil || *got != 1 {
		t.Errorf("PrevPage(2) = %v, want 1", got)
	}
}
