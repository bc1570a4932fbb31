package core

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ViewEngine renders view templates for dispatched actions. Views live at
// {viewsDir}/{Area}/{Controller}/{Action}.html, with shared partials under
// {viewsDir}/components and optional layouts referenced by a directive in
// the view's first lines:
//
//	<!-- layout: layouts/main.html -->
//
// Layout paths are relative to the views directory.
type ViewEngine struct {
	config Config
	env    string
}

func NewViewEngine(config Config, env string) *ViewEngine {
	return &ViewEngine{config: config, env: env}
}

type ctxKeyView struct{}

// WithViewEngine attaches the engine to a request context so ViewResults
// produced by controller actions can find it.
func WithViewEngine(ctx context.Context, e *ViewEngine) context.Context {
	return context.WithValue(ctx, ctxKeyView{}, e)
}

func viewEngineFromRequest(r *http.Request) *ViewEngine {
	e, _ := r.Context().Value(ctxKeyView{}).(*ViewEngine)
	return e
}

// ViewResult renders the view that matches the dispatched controller action.
type ViewResult struct {
	Data map[string]interface{}
}

// View is shorthand for a view result with the given template data.
func View(data map[string]interface{}) *ViewResult {
	return &ViewResult{Data: data}
}

func (res *ViewResult) Execute(w http.ResponseWriter, r *http.Request) error {
	engine := viewEngineFromRequest(r)
	if engine == nil {
		return fmt.Errorf("no view engine attached to request")
	}
	return engine.Render(w, r, res.Data)
}

// ViewPath returns the template path for the dispatch metadata recorded on
// the request.
func (e *ViewEngine) ViewPath(info DispatchInfo) string {
	if info.Area == "" {
		return filepath.Join(e.config.ViewsDir, info.ControllerName, info.Action+".html")
	}
	return filepath.Join(e.config.ViewsDir, info.Area, info.ControllerName, info.Action+".html")
}

// Render renders the view for the request's dispatched action, serving and
// filling the render cache in prod when caching is on.
func (e *ViewEngine) Render(w http.ResponseWriter, r *http.Request, data map[string]interface{}) error {
	info, ok := DispatchInfoFromRequest(r)
	if !ok {
		return fmt.Errorf("no dispatch metadata on request")
	}

	viewPath := e.ViewPath(info)
	if _, err := os.Stat(viewPath); err != nil {
		return fmt.Errorf("view not found: %s", viewPath)
	}

	cacheKey := cacheKeyFor(info)
	cacheable := e.env == "prod" && e.config.CacheEnabled &&
		r.Method == http.MethodGet && r.URL.RawQuery == ""

	if cacheable {
		if html, ok := GetCachedHTML(e.config, cacheKey); ok {
			e.writeHTML(w, viewPath, html)
			return nil
		}
	}

	html, err := e.renderToBytes(viewPath, data)
	if err != nil {
		return err
	}

	if cacheable {
		if err := SaveCachedHTML(e.config, cacheKey, html); err != nil {
			return fmt.Errorf("failed to cache rendered view: %w", err)
		}
	}

	e.writeHTML(w, viewPath, html)
	return nil
}

func (e *ViewEngine) writeHTML(w http.ResponseWriter, viewPath string, html []byte) {
	if e.config.DebugHeaders {
		w.Header().Set("X-Vane-View", filepath.ToSlash(viewPath))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", generateETag(html))
	w.Write(html)
}

func (e *ViewEngine) renderToBytes(viewPath string, data map[string]interface{}) ([]byte, error) {
	files := []string{viewPath}

	layout := e.getLayoutPath(viewPath)
	if layout != "" {
		files = append([]string{filepath.Join(e.config.ViewsDir, layout)}, files...)
	}

	files = append(files, e.componentFiles()...)

	tmpl := template.New(filepath.Base(files[0])).Funcs(VaneTemplateFuncs(e.env, e.config.OutputDir))
	tmpl, err := tmpl.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if layout != "" {
		err = tmpl.ExecuteTemplate(&buf, "layout", data)
	} else {
		err = tmpl.ExecuteTemplate(&buf, filepath.Base(viewPath), data)
	}
	if err != nil {
		return nil, fmt.Errorf("template exec error: %w", err)
	}

	return buf.Bytes(), nil
}

// getLayoutPath reads the layout directive from the view's first lines,
// returning "" when the view declares no layout.
func (e *ViewEngine) getLayoutPath(viewPath string) string {
	content, err := os.ReadFile(viewPath)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "<!-- layout:") && strings.HasSuffix(line, "-->") {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "<!-- layout:"), "-->"))
		}
	}
	return ""
}

func (e *ViewEngine) componentFiles() []string {
	var components []string
	componentsDir := filepath.Join(e.config.ViewsDir, "components")
	filepath.Walk(componentsDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
			components = append(components, path)
		}
		return nil
	})
	return components
}

func cacheKeyFor(info DispatchInfo) string {
	if info.Area == "" {
		return filepath.Join(info.ControllerName, info.Action)
	}
	return filepath.Join(info.Area, info.ControllerName, info.Action)
}

func generateETag(data []byte) string {
	h := md5.Sum(data)
	return `"` + hex.EncodeToString(h[:]) + `"`
}
