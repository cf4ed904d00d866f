package adc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{name: "one per line", input: "0\n512\n1023\n", want: []int{0, 512, 1023}},
		{name: "space separated", input: "1 2  3\t4", want: []int{1, 2, 3, 4}},
		{name: "mixed separators", input: "10 20\n30\r\n40\n\n", want: []int{10, 20, 30, 40}},
		{name: "signs", input: "-5 +7 2000", want: []int{-5, 7, 2000}},
		{name: "stops at word", input: "1 2 x 3", want: []int{1, 2}},
		{name: "stops after prefix", input: "1 12abc 3", want: []int{1, 12}},
		{name: "float prefix", input: "4 5.5 6", want: []int{4, 5}},
		{name: "empty", input: "", want: nil},
		{name: "leading garbage", input: "header 1 2", want: nil},
		{name: "long token", input: "1 2 " + strings.Repeat("x", 70000) + " 3", want: []int{1, 2}},
		{name: "long leading token", input: strings.Repeat("9", 70000) + " 3", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCodes(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(name, []byte("100 200\n300\n"), 0644))

	codes, err := ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200, 300}, codes)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
