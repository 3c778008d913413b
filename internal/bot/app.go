// Package bot wires the clinic bot together: menu navigation handlers,
// the appointment and feedback dialogs, admin notifications, and the
// optional record archive.
package bot

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	coretelegram "github.com/dentaline/clinicbot/core/telegram"
	"github.com/dentaline/clinicbot/core/telegram/router"
	tgsender "github.com/dentaline/clinicbot/core/telegram/sender"
	"github.com/dentaline/clinicbot/internal/archive"
	"github.com/dentaline/clinicbot/internal/catalog"
	"github.com/dentaline/clinicbot/internal/dialog"
	"github.com/dentaline/clinicbot/internal/notify"
	"github.com/dentaline/clinicbot/internal/session"
)

// App is the assembled clinic bot application.
type App struct {
	cfg    *Config
	cat    *catalog.Catalog
	store  session.Store
	engine *dialog.Engine
	arch   *archive.Archive

	// notifier is bound on start once the bot client exists.
	notifier *notify.Notifier
}

// New assembles the application from loaded configuration and catalog.
// db may be nil when no archive database is configured.
func New(cfg *Config, cat *catalog.Catalog, db *sqlx.DB) *App {
	store := session.NewMemoryStore(cfg.SessionTTL())
	return &App{
		cfg:    cfg,
		cat:    cat,
		store:  store,
		engine: dialog.NewEngine(store, cat),
		arch:   archive.New(db),
	}
}

// InProgress reports whether the user has an active dialog. It lets
// the text router hand dialog input to the engine before anything else.
func (a *App) InProgress(userID int64) bool {
	return a.engine.InProgress(userID)
}

// TelegramRunOptions builds the bot runtime wiring.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerHandlers(reg)

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(a, reg, router.TextOptions{}))

	return coretelegram.RunOptions{
		Config:   a.cfg.CoreConfig(),
		Registry: reg,
		DispatcherOptions: tgsender.Options{
			MaxRetries: 3,
		},
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.notifier = notify.New(rt.Bot, rt.Dispatcher, a.cfg.Telegram.AdminChatID)
			session.StartJanitor(ctx, a.store, 10*time.Minute)
			return nil
		},
	}, nil
}
