package core

import (
	"fmt"
	"strings"
	"unicode"
)

// RouteBinding is the immutable per-route configuration mapping a matched
// pattern to a controller, action, and view area. Create one with
// NewRouteBinding when registering routes; it never changes afterwards.
type RouteBinding struct {
	pkg        string
	controller Selector
	action     Selector
	area       string
}

// NewRouteBinding validates and creates a route binding. Package must be
// non-empty and both selectors non-nil. An empty area falls back to the
// dispatcher's configured default area at dispatch time.
func NewRouteBinding(pkg string, controller, action Selector, area string) (*RouteBinding, error) {
	if pkg == "" {
		return nil, NewError(ErrCodeInvalidRoute, "package name can not be empty")
	}
	if controller == nil {
		return nil, NewError(ErrCodeInvalidRoute, "controller selector can not be nil")
	}
	if action == nil {
		return nil, NewError(ErrCodeInvalidRoute, "action selector can not be nil")
	}
	return &RouteBinding{pkg: pkg, controller: controller, action: action, area: area}, nil
}

// MustRouteBinding is NewRouteBinding that panics on invalid input, for use in
// route tables built at startup.
func MustRouteBinding(pkg string, controller, action Selector, area string) *RouteBinding {
	b, err := NewRouteBinding(pkg, controller, action, area)
	if err != nil {
		panic(err)
	}
	return b
}

// Package returns the controller package this binding resolves inside.
func (b *RouteBinding) Package() string { return b.pkg }

// Area returns the binding's explicit area, or "" when it defers to the
// dispatcher default.
func (b *RouteBinding) Area() string { return b.area }

// String renders the binding for route listings, capture-group selectors as
// $N, e.g. "main.$1#$2 (area Admin)".
func (b *RouteBinding) String() string {
	s := fmt.Sprintf("%s.%v#%v", b.pkg, b.controller, b.action)
	if b.area != "" {
		s += fmt.Sprintf(" (area %s)", b.area)
	}
	return s
}

// controllerName resolves the concrete controller name for a match: selector
// text plus the configured suffix, with every word-initial letter capitalized
// so a lowercase route segment like "home" becomes "Home".
func (b *RouteBinding) controllerName(match []string, suffix string) (string, error) {
	name, err := b.controller.resolve(match)
	if err != nil {
		return "", err
	}
	return capitalizeWords(name + suffix), nil
}

// actionName resolves the concrete action name for a match. No capitalization
// is applied to action names.
func (b *RouteBinding) actionName(match []string) (string, error) {
	return b.action.resolve(match)
}

// capitalizeWords uppercases the first letter of each whitespace-separated
// word, leaving everything else untouched.
func capitalizeWords(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			startOfWord = true
			out.WriteRune(r)
			continue
		}
		if startOfWord {
			out.WriteRune(unicode.ToUpper(r))
			startOfWord = false
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
