package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name                string
		first, middle, last string
	}{
		{"", "", "", ""},
		{"Jane", "Jane", "", ""},
		{"Jane Doe", "Jane", "", "Doe"},
		{"Jane Marie Doe", "Jane", "Marie", "Doe"},
		{"Jane Marie van Doe", "Jane", "Marie van", "Doe"},
		{"  Jane   Doe  ", "Jane", "", "Doe"},
	}

	for _, tt := range tests {
		first, middle, last := SplitName(tt.name)
		assert.Equal(t, tt.first, first, "first of %q", tt.name)
		assert.Equal(t, tt.middle, middle, "middle of %q", tt.name)
		assert.Equal(t, tt.last, last, "last of %q", tt.name)
	}
}

func TestHumanizeHandle(t *testing.T) {
	assert.Equal(t, "Jane Doe", HumanizeHandle("jane.doe"))
	assert.Equal(t, "Jane Doe", HumanizeHandle("jane_doe92"))
	assert.Equal(t, "Janedoe", HumanizeHandle("janedoe"))
	assert.Equal(t, "", HumanizeHandle("12345"))
	assert.Equal(t, "", HumanizeHandle(""))
}
