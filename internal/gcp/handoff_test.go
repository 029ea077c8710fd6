package gcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "handoff/portfolioUserData/abc.json", objectName("portfolioUserData/abc"))
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		meta map[string]string
		want bool
	}{
		{"future", map[string]string{expiresAtMetaKey: now.Add(time.Minute).Format(time.RFC3339Nano)}, false},
		{"past", map[string]string{expiresAtMetaKey: now.Add(-time.Minute).Format(time.RFC3339Nano)}, true},
		{"exactly now", map[string]string{expiresAtMetaKey: now.Format(time.RFC3339Nano)}, true},
		{"missing", nil, true},
		{"garbage", map[string]string{expiresAtMetaKey: "tomorrow"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expired(tt.meta, now))
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PORTFOLIOFLOW_TEST_VAR", "set")
	assert.Equal(t, "set", GetEnv("PORTFOLIOFLOW_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("PORTFOLIOFLOW_TEST_UNSET", "fallback"))
}
