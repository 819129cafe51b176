package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"qotd/internal/config"
	"qotd/internal/cycle"
	"qotd/internal/daily"
	"qotd/internal/eventbus"
	"qotd/internal/notifier"
	"qotd/internal/observability/status"
	"qotd/internal/runtime/supervisor"
	"qotd/internal/source"
	"qotd/internal/storage"
	"qotd/internal/task/scheduler"
	logx "qotd/pkg/logx"
)

// Options configures NewApp.
type Options struct {
	ConfigPath string
	// AllowMissingConfig accepts an absent config file when the environment
	// supplies everything required.
	AllowMissingConfig bool
	// Env looks up environment overrides. Defaults to os.LookupEnv.
	Env config.LookupFunc
	// WatchConfig hot-reloads the logging section on file change.
	WatchConfig bool
}

type App struct {
	cfgm *config.ConfigManager
	sup  *supervisor.Supervisor

	log  logx.Logger
	logs *logx.Service

	bus     eventbus.Bus
	store   storage.Store
	runner  *cycle.Runner
	loop    *scheduler.Loop
	tracker *status.Tracker
	status  *status.Server
	watch   bool

	notify func(state string)
}

func NewApp(opts Options) (*App, error) {
	env := opts.Env
	if env == nil {
		env = os.LookupEnv
	}
	cfgm := config.NewConfigManager(opts.ConfigPath, env)
	cfgm.AllowMissing = opts.AllowMissingConfig
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.NewService(mapLogConfig(cfg))
	log = log.With(logx.String("comp", "app"))

	plan, err := mapLoopPlan(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}

	sc, err := mapSourceConfig(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	fetcher, err := source.New(sc)
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("source: %w", err)
	}

	nc, err := mapNotifierConfig(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	notif, err := notifier.New(nc, log.With(logx.String("comp", "notifier")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("notifier: %w", err)
	}
	if ls, ok := notif.(notifier.LogSender); ok {
		logSvc.SetChatSender(ls)
	}

	stc, err := mapStorageConfig(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	store, err := storage.Open(stc, log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	runner := &cycle.Runner{
		Store:    store,
		Fetcher:  fetcher,
		Notifier: notif,
		Selector: daily.NewSelector(nil),
		PostAt:   plan.postAt,
		Location: plan.loc,
		Log:      log.With(logx.String("comp", "cycle")),
	}
	bus := eventbus.New()
	loop := &scheduler.Loop{
		Schedule:        plan.tick,
		Location:        plan.loc,
		RunImmediately:  true,
		ContinueOnError: plan.continueOnError,
		Timeout:         plan.cycleTimeout,
		Log:             log.With(logx.String("comp", "scheduler")),
		Job: func(ctx context.Context, now time.Time) error {
			start := time.Now()
			res, err := runner.RunAt(ctx, now)
			publishCycle(bus, res, time.Since(start), err)
			return err
		},
	}

	tracker := status.NewTracker(time.Now())
	var statusSrv *status.Server
	if cfg.Status.Enabled {
		statusSrv = status.New(status.Config{
			Enabled: true,
			Addr:    cfg.Status.Addr,
			Token:   cfg.Status.Token,
			Pprof:   cfg.Status.Pprof,
		}, tracker, log.With(logx.String("comp", "status")))
	}

	log.Info("configured",
		logx.String("source", sc.Driver),
		logx.String("notifier", nc.Driver),
		logx.String("storage", stc.Driver),
		logx.String("state", stc.Path),
		logx.String("post_at", plan.postAt.String()),
		logx.String("timezone", plan.loc.String()),
		logx.String("tick", plan.tickRaw),
	)

	return &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		bus:     bus,
		store:   store,
		runner:  runner,
		loop:    loop,
		tracker: tracker,
		status:  statusSrv,
		watch:   opts.WatchConfig,
		notify:  sdNotify(log),
	}, nil
}

// Done is closed when the app context is canceled (fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error, if any.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

// Start launches the cycle loop and, when enabled, the config watcher.
func (a *App) Start(ctx context.Context) error {
	if a.sup != nil {
		return errors.New("app already started")
	}
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	events, unsub := a.bus.Subscribe(32)
	a.sup.Go("status.tracker", func(c context.Context) error {
		defer unsub()
		return a.tracker.Run(c, events)
	})
	if a.status != nil {
		// Restarted on failure; never stops the loop.
		a.sup.GoRestart("status.serve", a.status.Serve, 500*time.Millisecond, 10*time.Second)
	}

	a.sup.Go("cycle.loop", a.loop.Run)

	if a.watch {
		sub := a.cfgm.Subscribe(4)
		a.sup.GoRestart("config.watch", a.cfgm.Watch, 250*time.Millisecond, 5*time.Second)
		a.sup.Go("config.reload", func(c context.Context) error {
			defer a.cfgm.Unsubscribe(sub)
			return a.applyReloads(c, sub)
		})
	}

	a.notify(sdReady)
	a.log.Info("started")
	return nil
}

// applyReloads applies the logging section of each published config. Other
// sections need a restart.
func (a *App) applyReloads(ctx context.Context, sub chan *config.Config) error {
	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg, ok := <-sub:
			if !ok {
				return nil
			}
			// Keep only the newest of a burst.
			for drained := false; !drained; {
				select {
				case newer := <-sub:
					if newer != nil {
						cfg = newer
					}
				default:
					drained = true
				}
			}
			if last != nil && restartNeeded(last, cfg) {
				a.log.Warn("config changed outside logging; restart required for it to take effect")
			}
			a.logs.Apply(mapLogConfig(cfg))
			a.log.Info("logging config reloaded", logx.String("level", cfg.Logging.Level))
			last = cfg
		}
	}
}

func restartNeeded(old, cur *config.Config) bool {
	on, cn := old.Notifier, cur.Notifier
	on.RetryMax, cn.RetryMax = nil, nil
	return old.Source != cur.Source ||
		on != cn ||
		old.Notifier.Retries() != cur.Notifier.Retries() ||
		old.Schedule != cur.Schedule ||
		old.Storage != cur.Storage ||
		old.Status != cur.Status
}

// RunOnce runs a single cycle at the current time without starting the loop.
func (a *App) RunOnce(ctx context.Context) (cycle.Result, error) {
	start := time.Now()
	res, err := a.runner.RunOnce(ctx)
	publishCycle(a.bus, res, time.Since(start), err)
	return res, err
}

// Stop cancels the loop, waits for it to finish its current cycle and
// releases the store. It also releases an app that was never started.
func (a *App) Stop(ctx context.Context, reason StopReason) error {
	var err error
	if a.sup != nil {
		a.notify(sdStopping)
		a.log.Info("stopping", logx.String("reason", string(reason)))

		err = a.sup.Stop(ctx)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			a.log.Warn("stop deadline reached; cycle still in flight")
		}
	}
	if cerr := a.store.Close(); cerr != nil {
		a.log.Warn("storage close failed", logx.Err(cerr))
	}

	a.log.Info("stopped")
	a.logs.Close()
	return err
}

// Status returns the tracked cycle summary.
func (a *App) Status() status.Snapshot { return a.tracker.Snapshot() }

func publishCycle(bus eventbus.Bus, res cycle.Result, took time.Duration, err error) {
	if res.Due && res.Delivery.ID != "" && err == nil {
		bus.Publish(eventbus.Event{
			Type: eventbus.TypeQuestionPosted,
			Time: res.At,
			Data: eventbus.PostedData{ID: res.Delivery.ID, Text: res.Delivery.Text, Remaining: res.Delivery.Remaining},
		})
	}
	data := eventbus.CycleData{
		Total:    res.Total,
		Added:    len(res.Reconcile.Added),
		Updated:  len(res.Reconcile.Updated),
		Duration: took,
		Err:      err,
	}
	typ := eventbus.TypeCycleDone
	if err != nil {
		typ = eventbus.TypeCycleFailed
	}
	bus.Publish(eventbus.Event{Type: typ, Time: res.At, Data: data})
}
