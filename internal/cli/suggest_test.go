package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	want := `{"prefix": "os."}`
	if err := os.WriteFile(path, []byte(want), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if string(got) != want {
		t.Errorf("readInput = %q, want %q", got, want)
	}
}

func TestReadInputMissingFile(t *testing.T) {
	if _, err := readInput(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for a missing file, got nil")
	}
}

func TestPrintJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, map[string]int{"count": 3}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "  \"count\": 3") {
		t.Errorf("output not indented: %q", out)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["count"] != 3 {
		t.Errorf("decoded count = %d, want 3", decoded["count"])
	}
}

func TestSuggestCmdFlags(t *testing.T) {
	cmd := NewSuggestCmd()

	for _, name := range []string{"config", "request", "prefix", "limit"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("suggest command missing --%s flag", name)
		}
	}
}

func TestCommandNames(t *testing.T) {
	tests := []struct {
		cmdUse string
		got    string
	}{
		{"suggest", NewSuggestCmd().Name()},
		{"explain", NewExplainCmd().Name()},
		{"describe", NewDescribeCmd().Name()},
		{"train", NewTrainCmd().Name()},
		{"serve", NewServeCmd().Name()},
		{"catalog", NewCatalogCmd().Name()},
	}
	for _, tt := range tests {
		if tt.got != tt.cmdUse {
			t.Errorf("command name = %q, want %q", tt.got, tt.cmdUse)
		}
	}
}

func TestCatalogSubcommands(t *testing.T) {
	cmd := NewCatalogCmd()

	want := map[string]bool{"import": false, "stats": false, "search": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("catalog subcommand %q not registered", name)
		}
	}
}
