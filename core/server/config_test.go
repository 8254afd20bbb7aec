package server_test

import (
	"testing"

	"data-curator/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_CenterList(t *testing.T) {
	tests := []struct {
		name    string
		centers string
		want    []string
	}{
		{"Empty", "", nil},
		{"Single", "sage", []string{"SAGE"}},
		{"TrimmedAndUppercased", " sage , MSK ,dfci", []string{"SAGE", "MSK", "DFCI"}},
		{"DanglingComma", "sage,", []string{"SAGE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Centers: tt.centers}
			assert.Equal(t, tt.want, c.CenterList())
		})
	}
}

func TestConfig_IsKnownCenter(t *testing.T) {
	c := server.Config{Centers: "SAGE,MSK"}
	assert.True(t, c.IsKnownCenter("sage"))
	assert.True(t, c.IsKnownCenter("MSK"))
	assert.False(t, c.IsKnownCenter("UNKNOWN"))

	// An empty roster accepts anything.
	open := server.Config{}
	assert.True(t, open.IsKnownCenter("ANY"))
}
