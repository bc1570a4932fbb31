package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-vane/vane/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete cached rendered views from the output directory (default: outputDir in vane.config.yml)",
	ArgsUsage: "[Area/Controller/Action (optional)]",
	Action: func(c *cli.Context) error {
		config := core.LoadConfig("vane.config.yml")
		target := config.OutputDir

		if c.Args().Len() > 0 {
			key := c.Args().Get(0)
			key = strings.TrimPrefix(key, "/")
			target = filepath.Join(config.OutputDir, key)
		}

		info, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("🧼 Nothing to clean:", target)
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", target)
		}

		fmt.Println("🧹 Cleaning:", target)
		err = os.RemoveAll(target)
		if err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}

		fmt.Println("✅ Done.")
		return nil
	},
}
