package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/collections"
	"backoffice/commands"
	"backoffice/config"
	"backoffice/handlers"
	"backoffice/services"
)

func main() {
	configPath := os.Getenv("APP_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	baseSettings := services.SettingsFromConfig(cfg)

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewAuditTotalsCommand(app))

	// Create collections, migrate and seed on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateTaxMode(app); err != nil {
			log.Printf("Warning: tax mode migration failed: %v", err)
		}
		if cfg.App.Env == "dev" {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		if cfg.Metrics.Enabled {
			metrics, err := handlers.NewMetrics()
			if err != nil {
				return err
			}
			se.Router.BindFunc(metrics.Middleware())
			se.Router.GET("/metrics", metrics.HandleMetrics())
		}

		// Effective company settings for every request
		se.Router.BindFunc(handlers.SettingsMiddleware(app, baseSettings))

		// ── Invoices, quotes and templates ──────────────────────
		for _, kind := range services.AllKinds {
			base := "/" + kind.Collection()

			se.Router.GET(base, handlers.HandleDocumentList(app))
			se.Router.GET(base+"/new", handlers.HandleDocumentNew(app))
			se.Router.POST(base, handlers.HandleDocumentCreate(app))
			se.Router.GET(base+"/{id}", handlers.HandleDocumentView(app))
			se.Router.POST(base+"/{id}/save", handlers.HandleDocumentUpdate(app))
			se.Router.DELETE(base+"/{id}", handlers.HandleDocumentDelete(app))

			// Exports
			se.Router.GET(base+"/{id}/export/pdf", handlers.HandleDocumentExportPDF(app))
			se.Router.GET(base+"/{id}/export/excel", handlers.HandleDocumentExportExcel(app))

			// Create a quote/invoice from this document
			se.Router.POST(base+"/{id}/convert", handlers.HandleDocumentConvert(app))
		}

		// ── Live editor (stateless) ─────────────────────────────
		se.Router.POST("/editor/apply", handlers.HandleEditorApply(app))
		se.Router.POST("/totals/preview", handlers.HandleTotalsPreview(app))

		// Line item import
		se.Router.GET("/items/template", handlers.HandleItemsTemplate(app))
		se.Router.POST("/items/import", handlers.HandleItemsImport(app))
		se.Router.POST("/items/import/errors", handlers.HandleItemsErrorReport(app))

		// ── Company settings ────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettings(app))
		se.Router.POST("/settings", handlers.HandleSettingsSave(app))

		// Redirect home to quotes list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/quotes")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
