package core

import "fmt"

// Selector names a controller or action either directly or by reference to a
// capture group of the matched route pattern.
type Selector interface {
	resolve(match []string) (string, error)
}

// Literal selects a fixed name.
type Literal string

func (l Literal) resolve([]string) (string, error) {
	return string(l), nil
}

func (l Literal) String() string { return string(l) }

// CaptureGroup selects the text of the numbered capture group from the route
// match. Group 0 is the whole match, as with regexp submatches.
type CaptureGroup int

func (g CaptureGroup) resolve(match []string) (string, error) {
	if int(g) < 0 || int(g) >= len(match) {
		return "", WrapError(ErrCodeCaptureGroupOutOfRange,
			fmt.Sprintf("capture group %d out of range, match has %d groups", int(g), len(match)-1), nil)
	}
	return match[int(g)], nil
}

func (g CaptureGroup) String() string { return fmt.Sprintf("$%d", int(g)) }
