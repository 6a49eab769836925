package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
)

// Event names the page listens for.
const (
	EventBudgetChanged = "budget:changed"
	EventNotification  = "show-notification"
)

// Level is the style of a toast shown by the page.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

var toastDuration = map[Level]int{
	LevelSuccess: 3000,
	LevelError:   5000,
	LevelInfo:    4000,
}

// Response collects what an htmx request gets back: status, headers,
// HX-Trigger events and the swapped fragment.
type Response struct {
	status int
	header http.Header
	events map[string]any
	body   []byte
}

// Respond starts a 200 response.
func Respond() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
		events: make(map[string]any),
	}
}

func (r *Response) Status(code int) *Response {
	r.status = code
	return r
}

func (r *Response) Header(name, value string) *Response {
	r.header.Set(name, value)
	return r
}

// Emit queues an HX-Trigger event. A later event with the same name wins.
func (r *Response) Emit(event string, payload any) *Response {
	r.events[event] = payload
	return r
}

// Changed announces the budget version the fragment was rendered from.
func (r *Response) Changed(version uint64) *Response {
	return r.Emit(EventBudgetChanged, map[string]uint64{"version": version})
}

// Notify raises a toast on the page.
func (r *Response) Notify(level Level, message string) *Response {
	return r.Emit(EventNotification, map[string]any{
		"type":     string(level),
		"message":  message,
		"duration": toastDuration[level],
	})
}

func (r *Response) Text(s string) *Response {
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	r.body = []byte(s)
	return r
}

func (r *Response) HTML(b []byte) *Response {
	r.header.Set("Content-Type", "text/html; charset=utf-8")
	r.body = b
	return r
}

// Send writes the response. Events that fail to encode are dropped.
func (r *Response) Send(w http.ResponseWriter) {
	dst := w.Header()
	for name, values := range r.header {
		dst[name] = values
	}
	if len(r.events) > 0 {
		if encoded, err := json.Marshal(r.events); err == nil {
			dst.Set("HX-Trigger", string(encoded))
		}
	}
	if len(r.body) > 0 {
		dst.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	w.WriteHeader(r.status)
	if len(r.body) > 0 {
		_, _ = w.Write(r.body)
	}
}

// Fail builds an error response: an escaped message body, an error toast,
// and HX-Reswap none so the current region stays on screen.
func Fail(status int, message string) *Response {
	return Respond().
		Status(status).
		Header("HX-Reswap", "none").
		Notify(LevelError, message).
		HTML([]byte(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`))
}

// NotAllowed is a bare 405 carrying the Allow header.
func NotAllowed(methods string) *Response {
	return Respond().Status(http.StatusMethodNotAllowed).Header("Allow", methods)
}
