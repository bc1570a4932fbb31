package cli

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-vane/vane/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate view templates, components, and layouts",
	Action: func(c *cli.Context) error {
		config := core.LoadConfig("vane.config.yml")
		var failed bool

		componentsDir := filepath.Join(config.ViewsDir, "components")
		layoutsDir := filepath.Join(config.ViewsDir, "layouts")

		var components []string
		filepath.Walk(componentsDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				components = append(components, path)
			}
			return nil
		})

		filepath.Walk(config.ViewsDir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || !strings.HasSuffix(path, ".html") {
				return nil
			}
			// Components and layouts are only checked as part of a view.
			if strings.HasPrefix(path, componentsDir) || strings.HasPrefix(path, layoutsDir) {
				return nil
			}

			layoutPath := ""
			if content, err := os.ReadFile(path); err == nil {
				for _, line := range strings.Split(string(content), "\n") {
					line = strings.TrimSpace(line)
					if strings.HasPrefix(line, "<!-- layout:") && strings.HasSuffix(line, "-->") {
						layoutPath = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "<!-- layout:"), "-->"))
						break
					}
				}
			}

			files := append([]string{path}, components...)
			if layoutPath != "" {
				files = append([]string{filepath.Join(config.ViewsDir, layoutPath)}, files...)
			}

			rel, _ := filepath.Rel(config.ViewsDir, path)

			tmpl := template.New(filepath.Base(files[0])).Funcs(core.VaneTemplateFuncs("dev", config.OutputDir))
			tmpl, err = tmpl.ParseFiles(files...)
			if err != nil {
				failed = true
				fmt.Printf("❌ %s → parse error: %v\n", rel, err)
				return nil
			}

			var buf bytes.Buffer
			if layoutPath != "" {
				err = tmpl.ExecuteTemplate(&buf, "layout", map[string]interface{}{})
			} else {
				err = tmpl.ExecuteTemplate(&buf, filepath.Base(path), map[string]interface{}{})
			}
			if err != nil {
				failed = true
				fmt.Printf("❌ %s → exec error: %v\n", rel, err)
			} else {
				fmt.Printf("✅ %s\n", rel)
			}

			return nil
		})

		if failed {
			return cli.Exit("some templates failed to compile", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
