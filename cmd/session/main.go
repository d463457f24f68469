package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"example.com/balancetrainer/internal/api"
	"example.com/balancetrainer/internal/auth"
	"example.com/balancetrainer/internal/config"
	"example.com/balancetrainer/internal/consumer"
	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/feedback"
	"example.com/balancetrainer/internal/journal"
	"example.com/balancetrainer/internal/observability"
	"example.com/balancetrainer/internal/phrases"
	"example.com/balancetrainer/internal/plan"
	"example.com/balancetrainer/internal/presentation"
	"example.com/balancetrainer/internal/presentation/tui"
	"example.com/balancetrainer/internal/sequence"
	"example.com/balancetrainer/internal/session"
	"example.com/balancetrainer/internal/store"
	httptransport "example.com/balancetrainer/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("session failed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.DisplayMode == config.DisplayTUI {
		f, err := tea.LogToFile("session.log", "session")
		if err != nil {
			return err
		}
		defer f.Close()
	}

	seeds, err := seedConfigs(cfg)
	if err != nil {
		return err
	}

	catalog := phrases.New(cfg.Locale)
	configs := store.New()
	state := domain.NewSessionState()
	board := presentation.NewBoard()
	animator := presentation.NewSimAnimator(cfg.AnimationClipLength)
	audio := presentation.LogAudio{Logger: prefixed("audio")}
	metrics := observability.SessionMetrics{}
	id := uuid.New()

	memory := journal.NewMemorySink()
	sinks := []journal.Sink{memory}
	cleanup, extra, err := journalSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	sinks = append(sinks, extra...)
	sessionJournal := journal.New(id.String(), sinks,
		journal.WithBuffer(cfg.JournalBuffer),
		journal.WithLogger(prefixed("journal")))

	seq := sequence.New(sequence.Deps{
		Store:        configs,
		State:        state,
		Animator:     animator,
		Countdown:    board.CountdownSink(),
		Instructions: board.InstructionSink(),
		Overlay:      board,
		Audio:        audio,
		Phrases:      catalog,
		Listener:     sequence.Listeners{metrics, sessionJournal},
	}, sequence.Options{BypassClientConnect: cfg.BypassClientConnect})

	runner := session.NewRunner(session.Deps{
		Store:     configs,
		State:     state,
		Sequencer: seq,
		Feedback: &feedback.Handler{
			State:        state,
			Instructions: board.InstructionSink(),
			Overlay:      board,
			Audio:        audio,
			Phrases:      catalog,
			Observer:     metrics,
		},
		Display: board,
		Hooks:   []session.FrameHook{animator},
	}, session.WithID(id), session.WithLogger(prefixed("session")))

	for _, c := range seeds {
		runner.Push(session.ConfigArrived{Config: c, ReceivedAt: time.Now()})
	}

	// Background services stop once the session ends or a signal arrives.
	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sessionJournal.Run(bgCtx)
	}()

	if cfg.KafkaEnabled {
		startConsumers(bgCtx, &wg, cfg, runner)
	}

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	if cfg.JWTSecret == config.DevJWTSecret {
		if token, err := auth.Issue(authCfg, "dev", []string{auth.ScopeSessionRead, auth.ScopeSessionControl}, 12*time.Hour); err == nil {
			log.Printf("JWT_SECRET not set, development token: %s", token)
		}
	}

	handler := api.NewHandler(runner, board, api.WithJournal(memory))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	middleware := auth.NewMiddleware(authCfg, auth.SkipHealth)

	apiServer := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: 2 * cfg.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}, httptransport.CORS(cfg.CORSOrigin, httptransport.Logging(prefixed("http"), middleware.Wrap(mux))))
	metricsServer := httptransport.NewServer(httptransport.ServerConfig{
		Address:     cfg.MetricsAddress,
		ReadTimeout: cfg.HTTPTimeout,
	}, promhttp.Handler())

	for name, server := range map[string]*http.Server{"session api": apiServer, "metrics": metricsServer} {
		wg.Add(1)
		go func(name string, server *http.Server) {
			defer wg.Done()
			log.Printf("%s listening on %s", name, server.Addr)
			if err := httptransport.ListenAndServe(bgCtx, server, 10*time.Second); err != nil {
				log.Printf("%s server error: %v", name, err)
			}
		}(name, server)
	}

	if cfg.DisplayMode == config.DisplayTUI {
		err = runWithTUI(bgCtx, cfg, runner, board)
	} else {
		board.Subscribe(presentation.LogWatcher(prefixed("display"), board.View()))
		err = runner.Run(bgCtx, cfg.FrameInterval)
	}

	cancel()
	wg.Wait()
	log.Printf("session %s: %d journal entries recorded", id, len(memory.Entries()))
	return err
}

func runWithTUI(ctx context.Context, cfg config.Config, runner *session.Runner, board *presentation.Board) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(tui.New(runner, board.View()), tea.WithAltScreen(), tea.WithContext(ctx))
	tui.Attach(program, board, runner.Done())

	errs := make(chan error, 1)
	go func() {
		errs <- runner.Run(ctx, cfg.FrameInterval)
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-errs
		return err
	}
	cancel()
	if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// seedConfigs returns the configurations loaded locally when the session runs
// without a headset client.
func seedConfigs(cfg config.Config) ([]domain.ExerciseConfig, error) {
	if !cfg.BypassClientConnect {
		return nil, nil
	}
	if cfg.PlanPath == "" {
		log.Printf("SESSION_PLAN not set, using built-in exercises")
		return domain.DefaultExercises(), nil
	}
	configs, err := plan.LoadFile(cfg.PlanPath)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d exercises from %s", len(configs), cfg.PlanPath)
	return configs, nil
}

func journalSinks(ctx context.Context, cfg config.Config) (func(), []journal.Sink, error) {
	var (
		sinks   []journal.Sink
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return cleanup, nil, err
		}
		closers = append(closers, pool.Close)
		sink := journal.NewPostgresSink(pool)
		if err := sink.EnsureSchema(ctx); err != nil {
			cleanup()
			return func() {}, nil, err
		}
		log.Printf("journal: writing to postgres")
		sinks = append(sinks, sink)
	}

	if cfg.KafkaEnabled && cfg.JournalTopic != "" {
		writer := journal.NewKafkaWriter(cfg.KafkaBrokers, cfg.JournalTopic)
		closers = append(closers, func() {
			if err := writer.Close(); err != nil {
				log.Printf("journal writer close: %v", err)
			}
		})
		log.Printf("journal: publishing to %s", cfg.JournalTopic)
		sinks = append(sinks, journal.NewKafkaSink(writer))
	}

	if cfg.JournalWebhookURL != "" {
		log.Printf("journal: posting to %s", cfg.JournalWebhookURL)
		sinks = append(sinks, journal.NewWebhookSink(cfg.JournalWebhookURL, cfg.JournalWebhookToken, cfg.HTTPTimeout))
	}

	return cleanup, sinks, nil
}

func startConsumers(ctx context.Context, wg *sync.WaitGroup, cfg config.Config, sink consumer.Sink) {
	handler := consumer.NewSessionHandler(sink)
	for _, topic := range cfg.ConsumerTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.KafkaBrokers,
			GroupID:        cfg.ConsumerGroup,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			MaxWait:        100 * time.Millisecond,
			CommitInterval: time.Second,
		})
		proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(prefixed("consumer")))

		wg.Add(1)
		go func(tp string, r *kafka.Reader) {
			defer wg.Done()
			defer r.Close()
			log.Printf("consuming %s", tp)
			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("consumer stopped with error (topic=%s): %v", tp, err)
			}
		}(topic, reader)
	}
}

// prefixed returns a logger tagging lines with the component name. It writes
// to the standard logger's current output.
func prefixed(component string) *log.Logger {
	return log.New(log.Writer(), "["+component+"] ", log.LstdFlags)
}
