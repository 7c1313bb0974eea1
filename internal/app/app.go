package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/No1se-pi/moder-bot/internal/config"
	"github.com/No1se-pi/moder-bot/internal/journal"
	"github.com/No1se-pi/moder-bot/internal/schedule"
	"github.com/No1se-pi/moder-bot/internal/scheduler"
	"github.com/No1se-pi/moder-bot/internal/store"
	"github.com/No1se-pi/moder-bot/internal/telegram"
	"github.com/No1se-pi/moder-bot/internal/topics"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tele.Bot
	httpSrv *http.Server
	journal *journal.Journal
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		// Bounded timeout so one unresponsive API call cannot stall a sweep.
		Client: &http.Client{Timeout: 30 * time.Second},
		OnError: func(err error, _ tele.Context) {
			log.Error("telegram handler error", zap.Error(err))
		},
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting moder-bot",
		zap.String("tz", a.cfg.TZName),
		zap.String("http", a.cfg.HTTPAddr),
	)

	loc, err := time.LoadLocation(a.cfg.TZName)
	if err != nil {
		a.log.Error("load timezone failed", zap.String("tz", a.cfg.TZName), zap.Error(err))
		return err
	}

	jr, err := journal.Open(ctx, a.cfg.JournalPath)
	if err != nil {
		a.log.Error("open journal failed", zap.Error(err))
		return err
	}
	a.journal = jr
	a.log.Info("journal ready")

	st := store.New(a.cfg.ConfigPath, a.cfg.AdminIDs)
	cron := scheduler.New(loc, a.log)
	svc := topics.NewService(topics.NewRegistry(st), telegram.NewClient(a.bot), jr, a.log)
	mgr := schedule.NewManager(st, cron, svc, a.log)

	// Restore schedules for every enabled chat; the job registry itself is
	// not persisted.
	if err := mgr.LoadAll(); err != nil {
		a.log.Error("load schedules failed", zap.Error(err))
		return err
	}
	a.log.Info("schedules restored", zap.Int("jobs", len(cron.List())))

	router := telegram.NewRouter(a.bot, a.log, st, svc, mgr, cron, jr, a.cfg.TZName)
	router.Register()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()
	go cron.Run(ctx)
	go a.bot.Start()

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	a.bot.Stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	if a.journal != nil {
		_ = a.journal.Close()
	}
	return nil
}
