package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func setupCleanProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)

	config := "outputDir: ./cache\n"
	if err := os.WriteFile(filepath.Join(dir, "vane.config.yml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCleanCommand_RemovesOutputDir(t *testing.T) {
	dir := setupCleanProject(t)

	cached := filepath.Join(dir, "cache", "Home", "index")
	if err := os.MkdirAll(cached, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cached, "index.html"), []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	app := &cli.App{Commands: []*cli.Command{CleanCommand}}

	out := captureOutput(func() {
		if err := app.Run([]string{"vane", "clean"}); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	if !strings.Contains(out, "Cleaning:") {
		t.Errorf("expected cleaning output, got: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); !os.IsNotExist(err) {
		t.Error("expected cache dir to be removed")
	}
}

func TestCleanCommand_RemovesSingleKey(t *testing.T) {
	dir := setupCleanProject(t)

	keep := filepath.Join(dir, "cache", "Home", "index")
	drop := filepath.Join(dir, "cache", "Home", "about")
	for _, d := range []string{keep, drop} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	app := &cli.App{Commands: []*cli.Command{CleanCommand}}

	captureOutput(func() {
		if err := app.Run([]string{"vane", "clean", "Home/about"}); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	if _, err := os.Stat(drop); !os.IsNotExist(err) {
		t.Error("expected targeted cache entry to be removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("expected other cache entries to survive")
	}
}

func TestCleanCommand_NothingToClean(t *testing.T) {
	setupCleanProject(t)

	app := &cli.App{Commands: []*cli.Command{CleanCommand}}

	out := captureOutput(func() {
		if err := app.Run([]string{"vane", "clean"}); err != nil {
			t.Errorf("expected no error for missing cache dir, got: %v", err)
		}
	})

	if !strings.Contains(out, "Nothing to clean") {
		t.Errorf("expected nothing-to-clean output, got: %s", out)
	}
}

func TestCleanCommand_RejectsFileTarget(t *testing.T) {
	dir := setupCleanProject(t)

	if err := os.MkdirAll(filepath.Join(dir, "cache"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cache", "stray"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	app := &cli.App{Commands: []*cli.Command{CleanCommand}}

	captureOutput(func() {
		if err := app.Run([]string{"vane", "clean", "stray"}); err == nil {
			t.Error("expected error for non-directory target")
		}
	})
}
