package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

//go:embed _starter/** _starter/**/*
var starterFS embed.FS

var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Create a new Vane project from the default starter",
	Action: func(c *cli.Context) error {
		targetDir, _ := os.Getwd()
		fmt.Println("🚀 Creating Vane project in:", targetDir)

		err := copyEmbeddedDir(starterFS, "_starter", targetDir)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		if err := verifyStarter(targetDir); err != nil {
			return fmt.Errorf("starter project is incomplete: %w", err)
		}

		modFile := filepath.Join(targetDir, "go.mod")
		if _, err := os.Stat(modFile); os.IsNotExist(err) {
			moduleName := filepath.Base(targetDir)
			fmt.Println("🔧 Initialising Go module:", moduleName)

			cmd := execCommand("go", "mod", "init", moduleName)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Dir = targetDir
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("failed to run go mod init: %w", err)
			}

			cmd = execCommand("go", "mod", "tidy")
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Dir = targetDir
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("failed to run go mod tidy: %w", err)
			}
		}

		fmt.Println("✅ Project created successfully.")
		fmt.Println("▶  Run: vane dev")
		return nil
	},
}

// verifyStarter checks the copied project has the pieces a Vane app can not
// run without: a main package, a config file, and at least one controller
// registration the dispatcher can resolve.
func verifyStarter(dir string) error {
	for _, rel := range []string{"main.go", "vane.config.yml"} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			return fmt.Errorf("missing %s", rel)
		}
	}

	registers := false
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if strings.Contains(string(content), "Registry.MustRegister") ||
			strings.Contains(string(content), "Registry.Register") {
			registers = true
			break
		}
	}
	if !registers {
		return fmt.Errorf("no controller registration found")
	}

	return nil
}

func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string) error {
	return fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, os.ModePerm)
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return err
		}

		return os.WriteFile(targetPath, data, 0644)
	})
}
