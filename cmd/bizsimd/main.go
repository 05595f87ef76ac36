package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/bizsim-go/internal/adapters/feed"
	grpcadapter "github.com/andrescamacho/bizsim-go/internal/adapters/grpc"
	"github.com/andrescamacho/bizsim-go/internal/adapters/metrics"
	"github.com/andrescamacho/bizsim-go/internal/adapters/observer"
	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/database"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/wiring"
)

const (
	feedBuffer          = 256
	dashboardPollPeriod = 5 * time.Second
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default: search ./, ./configs, ~/.bizsim)")
	slotFlag := flag.String("slot", commands.DefaultSnapshotSlot, "Snapshot slot to load and autosave into")
	newFlag := flag.Bool("new", false, "Start a fresh game from the scenario file instead of loading the slot")
	flag.Parse()

	fmt.Println("Business Simulation Server v0.1.0")
	fmt.Println("=================================")

	fmt.Println("Loading configuration...")
	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.PIDFile != "" {
		fmt.Printf("Acquiring PID file lock: %s\n", cfg.Server.PIDFile)
		pf := pidfile.New(cfg.Server.PIDFile)
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock: %v", err)
		}
		defer func() {
			if err := pf.Release(); err != nil {
				log.Printf("Warning: failed to release PID file: %v", err)
			}
		}()
		fmt.Println("PID file lock acquired")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *slotFlag, *newFlag); err != nil {
		stop()
		log.Fatalf("Fatal error: %v", err)
	}
	fmt.Println("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, slot string, fresh bool) error {
	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	// 2. Logger, persisted under the slot name when enabled
	var sink common.LogSink
	if cfg.Logging.Persist {
		sink = persistence.NewGormSimulationLogRepository(db, nil)
	}
	logger, closeLog, err := wiring.NewLogger(cfg.Logging, slot, sink)
	if err != nil {
		return err
	}
	defer closeLog()

	// 3. Simulation and repositories
	sim, err := wiring.NewSimulation(cfg.Simulation, logger)
	if err != nil {
		return err
	}
	persistence.NewGormDailyStatsRepository(db, nil, logger).Attach(sim.Bus())
	store := persistence.NewGormSnapshotRepository(db, nil)

	// 4. Metrics
	var (
		registry   = metrics.NewRegistry()
		cmdMetrics *metrics.CommandMetricsCollector
		simMetrics *metrics.SimulationMetricsCollector
	)
	if cfg.Metrics.Enabled {
		cmdMetrics = metrics.NewCommandMetricsCollector(cfg.Metrics.Namespace)
		if err := cmdMetrics.Register(registry); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		simMetrics = metrics.NewSimulationMetricsCollector(cfg.Metrics.Namespace, func() (simulation.Dashboard, error) {
			return sim.Dashboard("")
		})
		if err := simMetrics.Register(registry); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}
		simMetrics.Attach(sim.Bus())
		fmt.Println("Metrics collectors registered")
	}

	// 5. Mediator
	var extra []common.Middleware
	if cmdMetrics != nil {
		extra = append(extra, metrics.PrometheusMiddleware(cmdMetrics))
	}
	mediator, err := wiring.NewMediator(sim, store, extra...)
	if err != nil {
		return fmt.Errorf("failed to build mediator: %w", err)
	}
	send := func(ctx context.Context, request common.Request) (common.Response, error) {
		return mediator.Send(common.WithLogger(ctx, logger), request)
	}

	// 6. Game state
	if err := loadOrSeed(ctx, send, sim, cfg.Simulation.ScenarioFile, slot, fresh); err != nil {
		return err
	}
	fmt.Printf("Game loaded from slot %q at %s\n", slot, sim.Clock().Snapshot())

	// 7. Transports
	events := feed.New(sim.Bus(), sim.Clock().Snapshot, feedBuffer)

	grpcServer := grpcadapter.NewSimulationServer(mediator, events, logger)
	grpcListener, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddress, err)
	}

	observerCfg := observer.Config{Mediator: mediator, Feed: events, Logger: logger, MetricsPath: cfg.Metrics.Path}
	if cfg.Metrics.Enabled {
		observerCfg.Metrics = metrics.Handler(registry)
	}
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddress,
		Handler:           observer.NewServer(observerCfg).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("gRPC listening on %s\n", cfg.Server.GRPCAddress)
		return grpcServer.Serve(grpcListener)
	})
	g.Go(func() error {
		fmt.Printf("HTTP observer listening on %s\n", cfg.Server.HTTPAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		var onTick func(simulation.TickResult)
		if simMetrics != nil {
			simMetrics.Start(gctx, dashboardPollPeriod)
			defer simMetrics.Stop()
			onTick = simMetrics.RecordTick
		}
		return sim.RunRealtime(gctx, onTick)
	})
	if interval := cfg.Simulation.AutosaveInterval; interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if _, err := send(gctx, &commands.SaveSnapshotCommand{Slot: slot}); err != nil {
						logger.Log(shared.LevelError, "Autosave failed", map[string]interface{}{
							"action": "autosave",
							"slot":   slot,
							"error":  err.Error(),
						})
					}
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		fmt.Println("Shutting down...")
		grpcServer.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	fmt.Println("Server ready")
	serveErr := g.Wait()

	// Final save outlives the cancelled serving context
	if _, err := send(context.Background(), &commands.SaveSnapshotCommand{Slot: slot}); err != nil {
		return errors.Join(serveErr, fmt.Errorf("final save failed: %w", err))
	}
	fmt.Printf("Game saved to slot %q\n", slot)
	return serveErr
}

// loadOrSeed restores the slot, falling back to the scenario when the slot
// is empty or a fresh game was requested
func loadOrSeed(ctx context.Context, send func(context.Context, common.Request) (common.Response, error), sim *simulation.Simulation, scenarioFile, slot string, fresh bool) error {
	if !fresh {
		_, err := send(ctx, &commands.LoadSnapshotCommand{Slot: slot})
		if err == nil {
			return nil
		}
		var notFound *shared.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to load slot %q: %w", slot, err)
		}
		fmt.Printf("Slot %q is empty, starting a new game\n", slot)
	}

	if err := wiring.Seed(sim, scenarioFile); err != nil {
		return err
	}
	if _, err := send(ctx, &commands.SaveSnapshotCommand{Slot: slot}); err != nil {
		return fmt.Errorf("failed to save new game: %w", err)
	}
	return nil
}
