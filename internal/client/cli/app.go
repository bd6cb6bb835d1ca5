package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dmitrijs2005/feedbackhub/internal/client/client"
	"github.com/dmitrijs2005/feedbackhub/internal/client/config"
	"github.com/dmitrijs2005/feedbackhub/internal/client/countdown"
	"github.com/dmitrijs2005/feedbackhub/internal/client/router"
	"github.com/dmitrijs2005/feedbackhub/internal/client/services"
	"github.com/dmitrijs2005/feedbackhub/internal/client/session"
	"github.com/dmitrijs2005/feedbackhub/internal/client/views"
	"github.com/dmitrijs2005/feedbackhub/internal/filex"
	"github.com/dmitrijs2005/feedbackhub/internal/logging"
)

// App wires the session store, router, feedback controller and views into
// an interactive terminal client.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	session  *session.Store
	router   *router.Router
	feedback *services.FeedbackController
	clock    *countdown.SkewedClock

	reader *bufio.Reader
	out    io.Writer

	// routeChanged is set by the router watcher; the REPL settles the new
	// route between commands.
	routeChanged atomic.Bool
	shownPath    string
}

// NewApp opens local storage and builds every component from cfg.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	dir, err := filex.EnsureDataDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, cfg.SessionDBName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(cfg.ServerURL, client.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a, err := newApp(cfg, logger, db, api, in, out)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg *config.Config, logger logging.Logger, db *sql.DB, api *client.HTTPClient, in io.Reader, out io.Writer) (*App, error) {
	a := &App{
		config: cfg,
		log:    logger,
		db:     db,
		clock:  countdown.NewSkewedClock(countdown.SystemClock),
		reader: bufio.NewReader(in),
		out:    out,
	}

	opts := []session.Option{session.WithDB(db), session.WithLogger(logger.With("component", "session"))}
	if cfg.UseServerClock {
		opts = append(opts, session.WithServerOffset(a.clock.SetOffset))
	}
	a.session = session.NewStore(api, opts...)
	api.SetTokenSource(a.session.Token)

	a.feedback = services.NewFeedbackController(api,
		services.WithClock(a.clock),
		services.WithLogger(logger.With("component", "feedback")),
		services.WithUnauthorized(a.session.Invalidate),
	)

	r, err := router.NewApp(a.session, router.Screens{
		Login:     func(session.State) router.View { return views.NewLoginView() },
		Register:  func(session.State) router.View { return views.NewRegisterView() },
		Dashboard: a.mountDashboard,
		Admin:     a.mountAdmin,
	})
	if err != nil {
		return nil, err
	}
	a.router = r
	a.router.Watch(func(router.Resolution) { a.routeChanged.Store(true) })

	return a, nil
}

func (a *App) mountDashboard(st session.State) router.View {
	a.feedback.Reset()
	return views.NewOwnerView(context.Background(), a.feedback, st.Identity.User, countdown.Options{
		Clock:    a.clock,
		Interval: a.config.TickInterval,
	}, nil)
}

func (a *App) mountAdmin(st session.State) router.View {
	a.feedback.Reset()
	return views.NewAdminView(a.feedback, st.Identity.User)
}

// Run restores the session, lands on the role home and runs the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to FeedbackHub (type 'help' for commands)")

	if _, err := a.router.Navigate("/"); err != nil {
		return err
	}
	a.settle(ctx)

	if err := a.session.Initialize(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
	a.settle(ctx)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close releases the mounted view and the database.
func (a *App) Close() {
	a.router.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) status() string {
	st := a.session.Snapshot()
	path := a.router.Current().Path
	if st.Identity != nil {
		return fmt.Sprintf("%s (%s)", path, st.Identity.User.Email)
	}
	return path
}

func (a *App) screen() views.Screen {
	s, _ := a.router.Current().View.(views.Screen)
	return s
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) offers(cmd string) bool {
	return views.Offers(a.screen(), cmd)
}

// settle renders the current route if it changed since it was last shown.
// Entering a feedback screen loads the list first.
func (a *App) settle(ctx context.Context) {
	changed := a.routeChanged.Swap(false)
	res := a.router.Current()
	if !changed && res.Path == a.shownPath {
		return
	}
	a.shownPath = res.Path

	if res.Pending {
		fmt.Fprintln(a.out, views.Styles.Muted.Render("Loading..."))
		return
	}

	if a.offers("refresh") {
		_ = a.load(ctx)
		// the refresh may have invalidated the session
		if a.routeChanged.Load() {
			a.settle(ctx)
			return
		}
	}
	a.render()
}

func (a *App) load(ctx context.Context) error {
	err := a.feedback.Refresh(ctx)
	if ov, ok := a.screen().(*views.OwnerView); ok {
		ov.Sync()
	}
	return err
}

func (a *App) render() {
	if s := a.screen(); s != nil {
		fmt.Fprintln(a.out, s.Render())
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
