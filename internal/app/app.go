// Package app wires the database, accessors, and stores into one registry.
// The registry is built once at startup and passed by reference; nothing here
// is a package-level singleton.
package app

import (
	"database/sql"
	"path/filepath"

	"execboard/internal/config"
	"execboard/internal/db"
	"execboard/internal/migrate"
	"execboard/internal/notify"
	"execboard/internal/remote"
	"execboard/internal/session"
	"execboard/internal/store"
)

// App owns the shared handles and the entity stores.
type App struct {
	DB     *sql.DB
	Config *config.Config
	Remote *remote.Remote

	Tasks      *store.TaskStore
	Briefs     *store.BriefStore
	Strategies *store.StrategyStore
	Dashboard  *store.DashboardStore
	Telegram   *store.TelegramStore
	Session    *session.Store
}

type Options struct {
	Workspace     string
	TelegramToken string
	AuthProvider  session.AuthProvider
}

// New opens the workspace database, runs migrations, and builds the store
// registry.
func New(opts Options) (*App, error) {
	conn, err := db.Open(db.Config{Workspace: opts.Workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	cfg, err := config.LoadOptional(opts.Workspace)
	if err != nil {
		conn.Close()
		return nil, err
	}

	r := remote.New(conn)
	chatID := ""
	if cfg != nil {
		chatID = cfg.Telegram.ChatID
	}
	notifier := notify.NewTelegram(opts.TelegramToken, chatID)

	provider := opts.AuthProvider
	if provider == nil {
		provider = LocalAuth{Users: r.Users}
	}
	stateDir, err := db.EnsureWorkspace(opts.Workspace)
	if err != nil {
		conn.Close()
		return nil, err
	}
	flagPath := filepath.Join(stateDir, cfg.SessionFile())

	a := &App{
		DB:         conn,
		Config:     cfg,
		Remote:     r,
		Tasks:      store.NewTaskStore(r.Tasks),
		Briefs:     store.NewBriefStore(r.Briefs),
		Strategies: store.NewStrategyStore(r.Strategies),
		Dashboard:  store.NewDashboardStore(r.Dashboard, r.Briefs, r.Tasks, cfg.BriefLimit(), cfg.ProblematicStatuses()),
		Telegram:   store.NewTelegramStore(r.Users, notifier),
		Session:    session.NewStore(provider, flagPath),
	}
	return a, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
