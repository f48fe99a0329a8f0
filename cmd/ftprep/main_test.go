package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "help", args: []string{"--help"}, want: 0},
		{name: "missing input", args: nil, want: 2},
		{name: "unknown flag", args: []string{"--nope"}, want: 2},
		{name: "unknown preset", args: []string{"--input", "x.csv", "--preset", "bogus"}, want: 1},
		{
			name: "missing tokenizer file",
			args: []string{"--input", "x.csv", "--tokenizer-file", filepath.Join(dir, "tokenizer.json")},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origDir, err := os.Getwd()
			if err != nil {
				t.Fatal(err)
			}
			if err := os.Chdir(dir); err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { _ = os.Chdir(origDir) })
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}
