package main

import (
	"testing"

	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

func TestParseCategoryFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    symbolentity.Category
		wantErr bool
	}{
		{"", "", false},
		{"stock", symbolentity.CategoryStock, false},
		{"crypto", symbolentity.CategoryCrypto, false},
		{"forex", symbolentity.CategoryForex, false},
		{"index", symbolentity.CategoryIndex, false},
		{"other", symbolentity.CategoryOther, false},
		{"stocks", "", true},
		{"STOCK", "", true},
	}

	for _, tt := range tests {
		got, err := parseCategoryFlag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCategoryFlag(%q): expected error, got none", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCategoryFlag(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCategoryFlag(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
