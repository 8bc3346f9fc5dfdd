package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
	"backoffice/templates"
)

type contextKey string

const SettingsKey contextKey = "settings"
const HeaderDataKey contextKey = "headerData"

// baseSettingsKey holds the configured settings before the stored overlay.
const baseSettingsKey contextKey = "baseSettings"

// GetSettings extracts the effective company settings from the request context.
func GetSettings(r *http.Request) services.Settings {
	if val, ok := r.Context().Value(SettingsKey).(services.Settings); ok {
		return val
	}
	return services.DefaultSettings()
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// SettingsMiddleware overlays the stored company settings on base, builds the
// page header and stores both in the request context so handlers and
// templates can use them.
func SettingsMiddleware(app *pocketbase.PocketBase, base services.Settings) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.LoadSettings(app, base)
		if err != nil {
			app.Logger().Warn("Could not load company settings, using configured defaults", "error", err)
			settings = base
		}

		headerData := templates.HeaderData{
			CompanyName: settings.CompanyName,
			ActiveKind:  activeKind(e.Request),
		}

		ctx := context.WithValue(e.Request.Context(), SettingsKey, settings)
		ctx = context.WithValue(ctx, baseSettingsKey, base)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// activeKind returns the collection named by the first path segment when it
// is a document kind.
func activeKind(r *http.Request) string {
	path := r.URL.Path
	for _, k := range services.AllKinds {
		prefix := "/" + k.Collection()
		if path == prefix || len(path) > len(prefix) && path[:len(prefix)+1] == prefix+"/" {
			return k.Collection()
		}
	}
	return ""
}
