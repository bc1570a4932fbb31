package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// Dispatcher turns a matched route plus an inbound request into a controller
// action call and hands the returned Result the response to render. It is
// safe for concurrent use: its configuration is immutable and the registry
// guards itself.
type Dispatcher struct {
	config   DispatchConfig
	registry *ControllerRegistry
	log      *logrus.Logger
}

// NewDispatcher builds a ready-to-use dispatcher. Passing the configuration
// here, rather than through process-wide state, means there is no separate
// initialization step to order before the first request.
func NewDispatcher(cfg DispatchConfig, registry *ControllerRegistry, log *logrus.Logger) *Dispatcher {
	if registry == nil {
		registry = Registry
	}
	if log == nil {
		log = logrus.New()
	}
	return &Dispatcher{config: cfg, registry: registry, log: log}
}

// Dispatch resolves binding against the route match, binds arguments from the
// request, invokes the chosen action, and executes its Result. Every failure
// past resolution of the binding itself comes back as a DISPATCH_FAILED error
// wrapping the typed cause; IsNotFoundError tells 404-worthy causes apart.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, binding *RouteBinding, match []string) error {
	ctrlName, err := binding.controllerName(match, d.config.ControllerSuffix)
	if err != nil {
		return d.wrap(err)
	}

	desc, err := d.registry.Lookup(binding.Package(), ctrlName)
	if err != nil {
		return d.wrap(err)
	}

	ctrl, err := d.registry.instantiate(desc)
	if err != nil {
		return d.wrap(err)
	}

	actionName, err := binding.actionName(match)
	if err != nil {
		return d.wrap(err)
	}

	action, ok := desc.findAction(actionName, r.Method)
	if !ok {
		return d.wrap(WrapError(ErrCodeActionNotFound,
			fmt.Sprintf("no action %q on %s.%s accepts %s", actionName, binding.Package(), ctrlName, r.Method), nil))
	}

	args := bindArgs(action, r)

	area := binding.Area()
	if area == "" {
		area = d.config.DefaultArea
	}

	info := DispatchInfo{
		Controller:     ctrl,
		ControllerName: strings.TrimSuffix(ctrlName, d.config.ControllerSuffix),
		Action:         action.Name,
		Area:           area,
	}
	r = r.WithContext(withDispatchInfo(r.Context(), info))

	ctrl.Init(w, r)

	d.log.WithFields(logrus.Fields{
		"request_id": RequestIDFromRequest(r),
		"package":    binding.Package(),
		"controller": ctrlName,
		"action":     action.Name,
		"area":       area,
	}).Debug("dispatching")

	result, err := invoke(action, ctrl, args)
	if err != nil {
		return d.wrap(err)
	}

	if result == nil {
		return nil
	}
	if err := result.Execute(w, r); err != nil {
		return d.wrap(err)
	}
	return nil
}

func (d *Dispatcher) wrap(err error) error {
	return WrapError(ErrCodeDispatchFailed, "dispatch failed", err)
}

// bindArgs builds the argument list for an action from its declared parameter
// table. Text parameters take the request's query/form value of the same
// name, absent fields bind as ""; every other parameter binds as a nil
// placeholder. A nil table binds zero arguments.
func bindArgs(action Action, r *http.Request) []any {
	if len(action.Params) == 0 {
		return nil
	}
	args := make([]any, len(action.Params))
	for i, p := range action.Params {
		if p.Kind == ParamText {
			args[i] = r.FormValue(p.Name)
		}
	}
	return args
}

// invoke runs the action, converting a panic in user controller code into an
// error instead of taking the server down.
func invoke(action Action, ctrl Controller, args []any) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("action %s panicked: %v", action.Name, rec)
		}
	}()
	return action.Func(ctrl, args)
}
