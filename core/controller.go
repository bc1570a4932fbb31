package core

import "net/http"

// Controller is the capability every dispatch target carries. Controllers are
// created fresh per request by their registered factory; Init runs before the
// chosen action.
type Controller interface {
	Init(w http.ResponseWriter, r *http.Request)
}

// BaseController is meant to be embedded by application controllers. It keeps
// the request pair around and offers small helpers; embedding it satisfies
// the Controller interface.
type BaseController struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *BaseController) Init(w http.ResponseWriter, r *http.Request) {
	c.w = w
	c.r = r
}

// Request returns the inbound request the controller is serving.
func (c *BaseController) Request() *http.Request { return c.r }

// Response returns the response writer for the current request.
func (c *BaseController) Response() http.ResponseWriter { return c.w }

// FormValue returns the named query or form field, "" when absent.
func (c *BaseController) FormValue(name string) string {
	if c.r == nil {
		return ""
	}
	return c.r.FormValue(name)
}

// ParamKind says how an action parameter is populated from the request.
type ParamKind int

const (
	// ParamText parameters receive the request's query/form value of the
	// parameter's name, "" when the field is absent.
	ParamText ParamKind = iota
	// ParamOpaque parameters are never populated from the request; they are
	// bound as nil placeholders.
	ParamOpaque
)

// Param declares one action parameter: its binding name and how it binds.
// Parameter tables are declared at registration time, so no runtime
// introspection is needed to recover names.
type Param struct {
	Name string
	Kind ParamKind
}

// ActionFunc is the invocation shape of a controller action. args follows the
// action's declared parameter table: string values for text params, nil for
// opaque ones, empty when no table was declared.
type ActionFunc func(c Controller, args []any) (Result, error)

// Action declares one dispatchable method of a controller. Several actions
// may share a Name and differ only in their verb restriction; the dispatcher
// picks the first declared action whose restriction admits the request.
type Action struct {
	// Name the action is dispatched under.
	Name string
	// Methods restricts the HTTP verbs this action accepts. Empty means any.
	Methods []string
	// Params is the declared parameter table used for argument binding. A nil
	// table binds zero arguments.
	Params []Param
	// Func runs the action.
	Func ActionFunc
}

// accepts reports whether the action admits the given HTTP verb.
func (a Action) accepts(method string) bool {
	if len(a.Methods) == 0 {
		return true
	}
	for _, m := range a.Methods {
		if m == method {
			return true
		}
	}
	return false
}
