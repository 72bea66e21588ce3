package toolconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFilesReturnsZeroConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(LoadInput{WorkDir: dir, Env: map[string]string{"HOME": dir}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threads != 0 || cfg.ProgressFile != "" || cfg.RecordDir != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadProjectConfigOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	globalDir := filepath.Join(home, ".config", "innullif")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalConf := `{
		// global defaults
		"threads": 4,
		"progress_file": "/tmp/global.progress",
	}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.hujson"), []byte(globalConf), 0o644); err != nil {
		t.Fatal(err)
	}

	projectConf := `{"threads": 16}`
	if err := os.WriteFile(filepath.Join(project, ConfigFileName), []byte(projectConf), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadInput{WorkDir: project, Env: map[string]string{"HOME": home}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Threads != 16 {
		t.Errorf("Threads = %d, want 16 (project override)", cfg.Threads)
	}
	if cfg.ProgressFile != "/tmp/global.progress" {
		t.Errorf("ProgressFile = %q, want global value to survive merge", cfg.ProgressFile)
	}
	if cfg.Sources.Global == "" || cfg.Sources.Project == "" {
		t.Errorf("expected both sources recorded, got %+v", cfg.Sources)
	}
}

func TestLoadMalformedProjectConfigFails(t *testing.T) {
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, ConfigFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(LoadInput{WorkDir: project, Env: map[string]string{}})
	if err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestResolvePath(t *testing.T) {
	cfg := Config{RecordDir: "/data/records"}

	if got := cfg.ResolvePath("n4.dat"); got != filepath.Join("/data/records", "n4.dat") {
		t.Errorf("ResolvePath relative = %q", got)
	}
	if got := cfg.ResolvePath("/abs/n4.dat"); got != "/abs/n4.dat" {
		t.Errorf("ResolvePath absolute = %q, want unchanged", got)
	}

	empty := Config{}
	if got := empty.ResolvePath("n4.dat"); got != "n4.dat" {
		t.Errorf("ResolvePath with no RecordDir = %q, want unchanged", got)
	}
}
