package vane

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-vane/vane/core"
)

// RuntimeConfig is what the generated main hands Start: the run mode and the
// application's route table.
type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int

	// Routes registers the application's routes on the router. Controllers
	// are expected to be registered with core.Registry before Start runs,
	// typically from the application's init functions.
	Routes func(r *core.Router)
}

var ListenAndServe = http.ListenAndServe

var Exit = os.Exit

// Start runs the framework: static assets, dev live reload, and the
// controller router. The "routes" mode prints the route table and returns
// instead of serving.
func Start(cfg RuntimeConfig) {
	if cfg.Env == "routes" {
		PrintRoutes(cfg, os.Stdout)
		return
	}

	fmt.Println("Starting Vane in", cfg.Env, "mode...")

	addr, handler := BuildServer(cfg)

	fmt.Printf("✅ Vane running at http://localhost:%d\n", cfg.Port)
	if err := ListenAndServe(addr, handler); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Server failed: %v\n", err)
		Exit(1)
	}
}

// PrintRoutes writes the project's route table in registration order, one
// line per route: the compiled pattern and the binding it dispatches to.
func PrintRoutes(cfg RuntimeConfig, w io.Writer) {
	config := core.LoadConfig("vane.config.yml")

	router := core.NewRouter(config, core.RuntimeContext{Env: "routes"})
	if cfg.Routes != nil {
		cfg.Routes(router)
	}

	routes := router.Routes()
	fmt.Fprintf(w, "🧭 %d route(s) registered:\n", len(routes))
	for _, route := range routes {
		fmt.Fprintf(w, "  %s → %s\n", route.Pattern.String(), route.Binding)
	}
}

// BuildServer assembles the full handler stack for the given runtime config
// and returns the listen address alongside it.
func BuildServer(cfg RuntimeConfig) (string, http.Handler) {
	config := core.LoadConfig("vane.config.yml")
	config.CacheEnabled = cfg.EnableCache

	log := core.NewLogger(config)

	mux := http.NewServeMux()

	publicDir := "public"
	cacheStaticDir := filepath.Join(config.OutputDir, "static")

	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, publicDir)
	} else {
		setupProdStaticRoutes(mux, publicDir, cacheStaticDir)
	}

	runtimeCtx := core.RuntimeContext{
		Env:         cfg.Env,
		EnableWatch: cfg.Env == "dev",
	}

	if cfg.Env == "dev" {
		reloader := core.NewLiveReloader()
		mux.HandleFunc("/__vane_reload", reloader.Handler)
		runtimeCtx.OnReload = reloader.BroadcastReload

		if _, err := core.WatchDirs([]string{config.ViewsDir, publicDir}, reloader.BroadcastReload, log); err != nil {
			log.WithError(err).Warn("live reload file watching disabled")
		}
	}

	router := core.NewRouter(config, runtimeCtx)
	if cfg.Routes != nil {
		cfg.Routes(router)
	}
	mux.Handle("/", router)

	return fmt.Sprintf(":%d", cfg.Port), mux
}

func setupDevStaticRoutes(mux *http.ServeMux, publicDir string) {
	staticHandler := http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.FileServer(http.Dir(publicDir)).ServeHTTP(w, r)
	}))
	mux.Handle("/static/", staticHandler)

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, filepath.Join(publicDir, "favicon.ico"))
	})

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, filepath.Join(publicDir, "robots.txt"))
	})
}

func setupProdStaticRoutes(mux *http.ServeMux, publicDir, cacheStaticDir string) {
	mux.Handle("/static/", makeStaticHandler(publicDir, cacheStaticDir))

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		serveFileWithHeaders(w, r, filepath.Join(publicDir, "favicon.ico"), "public, max-age=31536000, immutable")
	})

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		serveFileWithHeaders(w, r, filepath.Join(publicDir, "robots.txt"), "public, max-age=31536000, immutable")
	})
}

// makeStaticHandler serves prod static assets: minified/gzipped files from
// the cache dir when present, raw public files otherwise, all with immutable
// cache headers.
func makeStaticHandler(publicDir, cacheStaticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.Path
		if i := strings.Index(uri, "?"); i != -1 {
			uri = uri[:i]
		}
		trimmed := strings.TrimPrefix(uri, "/static/")

		if strings.Contains(trimmed, "..") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		cachedFile := filepath.Join(cacheStaticDir, trimmed)
		gzipFile := cachedFile + ".gz"

		if acceptsGzip(r) {
			if _, err := os.Stat(gzipFile); err == nil {
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
				http.ServeFile(w, r, gzipFile)
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, "public, max-age=31536000, immutable")
			return
		}

		publicFile := filepath.Join(publicDir, trimmed)
		if _, err := os.Stat(publicFile); err == nil {
			serveFileWithHeaders(w, r, publicFile, "public, max-age=31536000, immutable")
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, path string, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(path))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, path)
}

func detectMimeType(path string) string {
	switch filepath.Ext(path) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
