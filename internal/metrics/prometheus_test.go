package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"static path untouched", "/api/v1/sheet/rows", "/api/v1/sheet/rows"},
		{"row position collapses", "/api/v1/sheet/rows/17", "/api/v1/sheet/rows/{id}"},
		{"uuid collapses", "/api/v1/exports/4f6c2d9a-70f2-4b8e-9c64-0d1f2a3b4c5d", "/api/v1/exports/{id}"},
		{"identifier collapses", "/api/v1/roster/lookup/12345678", "/api/v1/roster/lookup/{id}"},
		{"mixed segments", "/api/v1/sheet/rows/3/cells/weight_kg", "/api/v1/sheet/rows/{id}/cells/weight_kg"},
		{"overlong path capped", "/api/v1/" + strings.Repeat("x", 120), "/api/..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizePath(tc.in))
		})
	}
}

func TestNormalizePath_DistinctIDsShareLabel(t *testing.T) {
	a := normalizePath("/api/v1/exports/0a1b2c3d-0000-4000-8000-000000000001")
	b := normalizePath("/api/v1/exports/0a1b2c3d-0000-4000-8000-000000000002")
	assert.Equal(t, a, b)
}
