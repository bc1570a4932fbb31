package core

import (
	"net/http"

	"github.com/segmentio/encoding/json"
)

// Result is what a controller action returns: something that knows how to
// finish writing the HTTP response.
type Result interface {
	Execute(w http.ResponseWriter, r *http.Request) error
}

// JSONResult writes its data as a JSON response.
type JSONResult struct {
	Status int
	Data   any
}

// JSON is shorthand for a 200 JSON result.
func JSON(data any) *JSONResult {
	return &JSONResult{Status: http.StatusOK, Data: data}
}

func (res *JSONResult) Execute(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(res.Data)
}

// RedirectResult answers with a redirect to URL.
type RedirectResult struct {
	URL    string
	Status int
}

// Redirect is shorthand for a 302 redirect result.
func Redirect(url string) *RedirectResult {
	return &RedirectResult{URL: url, Status: http.StatusFound}
}

func (res *RedirectResult) Execute(w http.ResponseWriter, r *http.Request) error {
	status := res.Status
	if status == 0 {
		status = http.StatusFound
	}
	http.Redirect(w, r, res.URL, status)
	return nil
}

// TextResult writes a plain text body.
type TextResult struct {
	Status int
	Body   string
}

// Text is shorthand for a 200 plain text result.
func Text(body string) *TextResult {
	return &TextResult{Status: http.StatusOK, Body: body}
}

func (res *TextResult) Execute(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write([]byte(res.Body))
	return err
}

// StatusResult answers with a bare status code.
type StatusResult struct {
	Status int
}

func (res *StatusResult) Execute(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(res.Status)
	return nil
}
