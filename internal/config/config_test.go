package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("IMPORT_CONFIG_FILE", "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeOffline || cfg.DBDriver != "sqlite" || cfg.SourceDriver != "fs" {
		t.Fatalf("defaults: %+v", cfg)
	}
	im := cfg.Import
	if im.PoolCore != 4 || im.PoolMax != 8 || im.MinCellsMC != 5 || im.MinCellsTF != 4 {
		t.Fatalf("import defaults: %+v", im)
	}
	if !reflect.DeepEqual(im.ForbiddenTitles, []string{"ICMP"}) {
		t.Fatalf("forbidden titles: %v", im.ForbiddenTitles)
	}
}

func TestFromEnvOverridesAndYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.yaml")
	yml := "pool_core: 2\npool_max: 3\nforbidden_titles: [ICMP, ARP]\nweight_tolerance: 0.001\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IMPORT_POOL_CORE", "6")
	t.Setenv("IMPORT_MIN_CELLS_TF", "3")
	t.Setenv("IMPORT_CONFIG_FILE", path)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	im := cfg.Import
	if im.PoolCore != 2 || im.PoolMax != 3 || im.MinCellsTF != 3 || im.WeightTolerance != 0.001 {
		t.Fatalf("overlay: %+v", im)
	}
	if !reflect.DeepEqual(im.ForbiddenTitles, []string{"ICMP", "ARP"}) {
		t.Fatalf("forbidden titles: %v", im.ForbiddenTitles)
	}
}

func TestValidateRejectsImpossiblePools(t *testing.T) {
	t.Setenv("IMPORT_CONFIG_FILE", "")
	t.Setenv("IMPORT_POOL_CORE", "4")
	t.Setenv("IMPORT_POOL_MAX", "2")
	if _, err := FromEnv(); err == nil {
		t.Fatal("max below core accepted")
	}
	t.Setenv("IMPORT_POOL_MAX", "8")
	t.Setenv("SOURCE_DRIVER", "ftp")
	if _, err := FromEnv(); err == nil {
		t.Fatal("unknown source driver accepted")
	}
}
