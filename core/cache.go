package core

import (
	"compress/gzip"
	"os"
	"path/filepath"
)

// GetCachedHTML returns the cached rendered view for a dispatch key like
// "Area/Home/index", if one exists.
func GetCachedHTML(config Config, key string) ([]byte, bool) {
	cachePath := filepath.Join(config.OutputDir, key, "index.html")

	if _, err := os.Stat(cachePath); err != nil {
		return nil, false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	return content, true
}

// SaveCachedHTML stores a rendered view under its dispatch key, plus a gzip
// variant for direct serving.
func SaveCachedHTML(config Config, key string, html []byte) error {
	outDir := filepath.Join(config.OutputDir, key)
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	htmlPath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0644); err != nil {
		return err
	}

	gzPath := htmlPath + ".gz"
	f, err := os.Create(gzPath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	_, err = gz.Write(html)
	return err
}
