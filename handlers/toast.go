package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

const flashToastCookie = "flash_toast"

// toast is the detail of the showToast event the layout script listens for.
type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a toast notification. HTMX requests receive it as a
// showToast event in HX-Trigger, merged with any events a handler already
// set. A short-lived flash cookie carries it across full-page redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	t := toast{Message: message, Type: toastType}

	events := triggerEvents(e.Response.Header().Get("HX-Trigger"))
	events["showToast"] = t

	data, err := json.Marshal(events)
	if err != nil {
		requestLogger(e).Error("Failed to encode HX-Trigger", "error", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	cookieVal, err := json.Marshal(t)
	if err != nil {
		requestLogger(e).Error("Failed to encode flash toast", "error", err)
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashToastCookie,
		Value:    url.QueryEscape(string(cookieVal)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by the layout script
		SameSite: http.SameSiteLaxMode,
	})
}

// triggerEvents parses an HX-Trigger value into its events. HTMX accepts
// either a JSON object or a comma-separated list of event names; names from
// the list are kept with an empty detail.
func triggerEvents(header string) map[string]any {
	events := make(map[string]any)
	header = strings.TrimSpace(header)
	if header == "" {
		return events
	}
	if strings.HasPrefix(header, "{") {
		if err := json.Unmarshal([]byte(header), &events); err == nil {
			return events
		}
		events = make(map[string]any)
	}
	for _, name := range strings.Split(header, ",") {
		if name = strings.TrimSpace(name); name != "" && !strings.ContainsAny(name, "{}\":") {
			events[name] = nil
		}
	}
	return events
}

// requestLogger is the app logger, or the default logger for events built
// outside a running app.
func requestLogger(e *core.RequestEvent) *slog.Logger {
	if e.App != nil {
		return e.App.Logger()
	}
	return slog.Default()
}

// ErrorToast sends an error toast with statusCode. HX-Reswap: none keeps HTMX
// from swapping the plain-text body into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
