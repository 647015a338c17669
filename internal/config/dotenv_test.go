package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	t.Setenv("A", "")
	t.Setenv("B", "")
	t.Setenv("C", "")

	path := writeDotEnv(t, `
# comment

A=one
export B=two
C="three"
not a pair
`)

	n, err := loadDotEnv(path)
	if err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if n != 3 {
		t.Fatalf("loaded %d keys, want 3", n)
	}

	for key, want := range map[string]string{"A": "one", "B": "two", "C": "three"} {
		if got := os.Getenv(key); got != want {
			t.Fatalf("%s=%q, want %q", key, got, want)
		}
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	n, err := loadDotEnv(writeDotEnv(t, "KEEP=fromfile\n"))
	if err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if n != 0 {
		t.Fatalf("loaded %d keys, want 0", n)
	}
	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	n, err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil || n != 0 {
		t.Fatalf("loadDotEnv = (%d, %v), want (0, nil)", n, err)
	}
}

func TestParseDotEnvLine(t *testing.T) {
	cases := []struct {
		line, key, value string
		ok               bool
	}{
		{"Q='hello world'", "Q", "hello world", true},
		{`H="keep # this"`, "H", "keep # this", true},
		{"PORT=9090 # local only", "PORT", "9090", true},
		{"=nokey", "", "", false},
		{"# LOG_LEVEL=debug", "", "", false},
	}

	for _, tc := range cases {
		key, value, ok := parseDotEnvLine(tc.line)
		if key != tc.key || value != tc.value || ok != tc.ok {
			t.Fatalf("parseDotEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)", tc.line, key, value, ok, tc.key, tc.value, tc.ok)
		}
	}
}
