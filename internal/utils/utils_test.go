package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and GetUserIDFromContext", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 100, "user@example.com", RoleUser)

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uint(100), id)
		assert.Equal(t, "user@example.com", GetUserEmailFromContext(ctx))
		assert.Equal(t, RoleUser, GetUserRoleFromContext(ctx))
	})

	t.Run("GetUserIDFromContext with empty context", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		page, limit, total int
		expectedTotalPages int
	}{
		{"Exact", 1, 10, 20, 2},
		{"Remainder", 1, 10, 21, 3},
		{"Empty", 1, 10, 0, 0},
		{"SinglePartial", 2, 10, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.expectedTotalPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestParsePage(t *testing.T) {
	page, limit := ParsePage("", "", 12)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, limit)

	page, limit = ParsePage("3", "5", 12)
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, limit)

	page, limit = ParsePage("-1", "1000", 12)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxLimit, limit)
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "bad input", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "bad input", body["message"])
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"kaos"}`))

	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "kaos", dst.Name)

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(bad, &dst))
}

func TestGenerateOrderNumber(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		num := GenerateOrderNumber()

		parts := strings.Split(num, "-")
		if assert.Len(t, parts, 3) {
			assert.Equal(t, "ORDER", parts[0])
			assert.Len(t, parts[1], 13, "unix millis")
			assert.LessOrEqual(t, len(parts[2]), 3)
		}
	})

	t.Run("Varies", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			seen[GenerateOrderNumber()] = true
		}
		assert.Greater(t, len(seen), 1)
	})
}
