package config

import (
	"testing"

	"github.com/go-test/deep"
)

func TestParse(t *testing.T) {
	buff := []byte(`
[project]
name = "sorter"
source = "sorter.cl"
log-level = "error"
dump-ast = true
`)

	cfg, err := Parse(buff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		Name:     "sorter",
		Source:   "sorter.cl",
		LogLevel: "error",
		DumpAST:  true,
	}
	if diff := deep.Equal(cfg, want); diff != nil {
		t.Errorf("unexpected config: %v", diff)
	}
}

func TestParseMinimal(t *testing.T) {
	cfg, err := Parse([]byte("[project]\nname = \"sorter\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "sorter" || cfg.Source != "" || cfg.LogLevel != "" || cfg.DumpAST {
		t.Errorf("optional settings should default to their zero values: %+v", cfg)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		buff string
	}{
		{"missing project section", "title = \"sorter\"\n"},
		{"missing project name", "[project]\nsource = \"sorter.cl\"\n"},
		{"malformed toml", "[project\nname = \"sorter\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.buff)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("a missing config file should not be an error: %v", err)
	}
	if cfg == nil || cfg.Name != "" {
		t.Errorf("expected the zero configuration, got %+v", cfg)
	}
}
