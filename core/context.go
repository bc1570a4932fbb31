package core

import (
	"context"
	"net/http"
)

type contextKey int

const (
	ctxKeyAction contextKey = iota
	ctxKeyController
	ctxKeyArea
	ctxKeyControllerName
	ctxKeyRequestID
)

// DispatchInfo is the metadata the dispatcher records for a handled request,
// for downstream consumers such as view path resolution.
type DispatchInfo struct {
	// Controller is the instance the action ran on.
	Controller Controller
	// ControllerName is the resolved name without the configured suffix,
	// e.g. "Home" for "HomeController".
	ControllerName string
	// Action is the resolved action name.
	Action string
	// Area is the resolved area, "" when none applies.
	Area string
}

func withDispatchInfo(ctx context.Context, info DispatchInfo) context.Context {
	ctx = context.WithValue(ctx, ctxKeyController, info.Controller)
	ctx = context.WithValue(ctx, ctxKeyControllerName, info.ControllerName)
	ctx = context.WithValue(ctx, ctxKeyAction, info.Action)
	ctx = context.WithValue(ctx, ctxKeyArea, info.Area)
	return ctx
}

// DispatchInfoFromRequest returns the dispatch metadata recorded on the
// request, and false if no action was dispatched on it.
func DispatchInfoFromRequest(r *http.Request) (DispatchInfo, bool) {
	action, ok := r.Context().Value(ctxKeyAction).(string)
	if !ok {
		return DispatchInfo{}, false
	}
	ctrl, _ := r.Context().Value(ctxKeyController).(Controller)
	name, _ := r.Context().Value(ctxKeyControllerName).(string)
	area, _ := r.Context().Value(ctxKeyArea).(string)
	return DispatchInfo{
		Controller:     ctrl,
		ControllerName: name,
		Action:         action,
		Area:           area,
	}, true
}

// WithRequestID stores the router-assigned request id on a context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFromRequest returns the id the router assigned to this request,
// "" if none was assigned.
func RequestIDFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyRequestID).(string)
	return id
}
