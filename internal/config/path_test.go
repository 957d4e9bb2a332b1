package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}
	t.Setenv("COFRINHO_TEST_DIR", "/var/data")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty path", input: "", want: ""},
		{name: "plain path", input: "/tmp/cofrinho.db", want: "/tmp/cofrinho.db"},
		{name: "tilde prefix", input: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{name: "bare tilde", input: "~", want: home},
		{name: "env variable", input: "$COFRINHO_TEST_DIR/ledger.db", want: "/var/data/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
