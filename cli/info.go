package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-vane/vane/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print project configuration and view/cache summary",
	Action: func(c *cli.Context) error {
		config := core.LoadConfig("vane.config.yml")

		fmt.Println("📁 Views Directory:", config.ViewsDir)
		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔤 Controller Suffix:", config.ControllerSuffix)
		if config.DefaultArea != "" {
			fmt.Println("🗺️  Default Area:", config.DefaultArea)
		}
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println()

		componentsDir := filepath.Join(config.ViewsDir, "components")

		componentCount := 0
		filepath.Walk(componentsDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				componentCount++
			}
			return nil
		})

		viewCount := 0
		filepath.Walk(config.ViewsDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") && !strings.HasPrefix(path, componentsDir) {
				viewCount++
			}
			return nil
		})

		cacheCount := 0
		filepath.Walk(config.OutputDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				cacheCount++
			}
			return nil
		})

		fmt.Println("🗂️  Views Found:", viewCount)
		fmt.Println("📦 Components Found:", componentCount)
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}
