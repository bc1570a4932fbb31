package core

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RuntimeContext carries the per-run settings the server hands the router.
type RuntimeContext struct {
	Env         string
	EnableWatch bool
	OnReload    func()
}

// Route pairs a compiled URL pattern with the binding that tells the
// dispatcher what to do with a match.
type Route struct {
	Pattern *regexp.Regexp
	Binding *RouteBinding
}

// Router matches request paths against its route table in registration order
// and hands the first match to the dispatcher.
type Router struct {
	config     Config
	env        string
	dispatcher *Dispatcher
	views      *ViewEngine
	log        *logrus.Logger

	routes []Route
	lock   sync.RWMutex
}

func NewRouter(config Config, ctx RuntimeContext) *Router {
	log := NewLogger(config)
	return &Router{
		config:     config,
		env:        ctx.Env,
		dispatcher: NewDispatcher(config.Dispatch(), Registry, log),
		views:      NewViewEngine(config, ctx.Env),
		log:        log,
	}
}

// Handle registers a route. The pattern is either a regular expression
// (anything starting with "^") or the bracket shorthand, e.g.
//
//	"blog/[controller]/[action]"
//
// where each bracketed segment becomes a capture group. Matching is against
// the request path with surrounding slashes trimmed, so "" matches the root.
func (r *Router) Handle(pattern string, binding *RouteBinding) error {
	if binding == nil {
		return NewError(ErrCodeInvalidRoute, "route binding can not be nil")
	}

	re, err := CompilePattern(pattern)
	if err != nil {
		return WrapError(ErrCodeInvalidRoute, fmt.Sprintf("bad route pattern %q", pattern), err)
	}

	r.lock.Lock()
	r.routes = append(r.routes, Route{Pattern: re, Binding: binding})
	r.lock.Unlock()

	r.log.WithFields(logrus.Fields{
		"pattern": re.String(),
		"package": binding.Package(),
	}).Debug("route registered")
	return nil
}

// MustHandle is Handle that panics, for route tables built at startup.
func (r *Router) MustHandle(pattern string, binding *RouteBinding) {
	if err := r.Handle(pattern, binding); err != nil {
		panic(err)
	}
}

// Routes returns a copy of the route table in registration order.
func (r *Router) Routes() []Route {
	r.lock.RLock()
	defer r.lock.RUnlock()
	routes := make([]Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(req.URL.Path, "/")

	requestID := uuid.NewString()
	ctx := WithRequestID(req.Context(), requestID)
	ctx = WithViewEngine(ctx, r.views)
	req = req.WithContext(ctx)
	w.Header().Set("X-Request-ID", requestID)

	r.lock.RLock()
	routes := r.routes
	r.lock.RUnlock()

	for _, route := range routes {
		match := route.Pattern.FindStringSubmatch(path)
		if match == nil {
			continue
		}

		if err := r.dispatcher.Dispatch(w, req, route.Binding, match); err != nil {
			r.fail(w, req, requestID, err)
		}
		return
	}

	http.NotFound(w, req)
}

func (r *Router) fail(w http.ResponseWriter, req *http.Request, requestID string, err error) {
	fields := logrus.Fields{
		"request_id": requestID,
		"path":       req.URL.Path,
		"method":     req.Method,
		"code":       ErrorCodeOf(err),
	}

	if IsNotFoundError(err) {
		r.log.WithFields(fields).Debug("no dispatch target")
		http.NotFound(w, req)
		return
	}

	r.log.WithFields(fields).WithError(err).Error("dispatch failed")
	if r.env == "dev" {
		http.Error(w, "Dispatch error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// CompilePattern turns a route pattern into an anchored regexp. Patterns
// already written as regular expressions (leading "^") pass through; bracket
// segments like "[action]" become capture groups.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.HasPrefix(pattern, "^") {
		return regexp.Compile(pattern)
	}

	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return regexp.Compile("^$")
	}

	var out strings.Builder
	for i, part := range strings.Split(trimmed, "/") {
		if i > 0 {
			out.WriteString("/")
		}
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			out.WriteString("([^/]+)")
		} else {
			out.WriteString(regexp.QuoteMeta(part))
		}
	}

	return regexp.Compile("^" + out.String() + "$")
}
