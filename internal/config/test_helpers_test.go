package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

const minimalValidConfig = `
Addrs = ["0.0.0.0"]
BaseDir = "./hooks"

[Sites.example]
Hosts = ["example.com"]
Category = "A"
`
