package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	grpcadapter "github.com/andrescamacho/bizsim-go/internal/adapters/grpc"
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

// session is one offline CLI invocation: the saved game loaded from its
// slot, the mediator serving it, and the resources to release afterwards
type session struct {
	cfg      *config.Config
	prefs    *config.Preferences
	db       *gorm.DB
	pid      *pidfile.PIDFile
	logger   *common.SimulationLogger
	closeLog func() error
	sim      *simulation.Simulation
	mediator common.Mediator
	store    *persistence.GormSnapshotRepository
	slot     string
}

// openSession loads the current slot. With fresh set it starts an empty
// game instead, for `bizsim new`.
func openSession(ctx context.Context, fresh bool) (*session, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	prefs := loadPreferences()

	s := &session{cfg: cfg, prefs: prefs, slot: resolveSlot(prefs)}

	if cfg.Server.PIDFile != "" {
		s.pid = pidfile.New(cfg.Server.PIDFile)
		if err := s.pid.Acquire(); err != nil {
			if errors.Is(err, pidfile.ErrAlreadyRunning) {
				return nil, fmt.Errorf("%w: stop bizsimd or use --remote views", err)
			}
			return nil, err
		}
	}

	s.db, err = database.Open(&cfg.Database)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var sink common.LogSink
	if cfg.Logging.Persist {
		sink = persistence.NewGormSimulationLogRepository(s.db, nil)
	}
	s.logger, s.closeLog, err = wiring.NewLogger(cliLogging(cfg.Logging), s.slot, sink)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.sim, err = wiring.NewSimulation(cfg.Simulation, s.logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	persistence.NewGormDailyStatsRepository(s.db, nil, s.logger).Attach(s.sim.Bus())

	s.store = persistence.NewGormSnapshotRepository(s.db, nil)
	s.mediator, err = wiring.NewMediator(s.sim, s.store)
	if err != nil {
		s.Close()
		return nil, err
	}

	if !fresh {
		if _, err := s.send(ctx, &commands.LoadSnapshotCommand{Slot: s.slot}); err != nil {
			s.Close()
			var notFound *shared.NotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("no saved game in slot %q: run 'bizsim new' first", s.slot)
			}
			return nil, err
		}
	}
	return s, nil
}

// send dispatches through the mediator with the session logger in context
func (s *session) send(ctx context.Context, request common.Request) (common.Response, error) {
	return s.mediator.Send(common.WithLogger(ctx, s.logger), request)
}

// save writes the game back to its slot
func (s *session) save(ctx context.Context) (common.SnapshotInfo, error) {
	resp, err := s.send(ctx, &commands.SaveSnapshotCommand{Slot: s.slot})
	if err != nil {
		return common.SnapshotInfo{}, err
	}
	return resp.(*commands.SnapshotResponse).Info, nil
}

// business returns the --business flag, then the preference, then the
// game's active business
func (s *session) business() string {
	if businessID != "" {
		return businessID
	}
	if s.prefs.DefaultBusinessID != "" {
		if _, err := s.sim.Directory().Business(s.prefs.DefaultBusinessID); err == nil {
			return s.prefs.DefaultBusinessID
		}
	}
	if active := s.sim.Directory().ActiveBusiness(); active != nil {
		return active.ID()
	}
	return ""
}

func (s *session) Close() {
	if s.closeLog != nil {
		_ = s.closeLog()
	}
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.pid != nil {
		_ = s.pid.Release()
	}
}

// mutate runs fn against a loaded game and saves the result
func mutate(ctx context.Context, fn func(*session) error) error {
	s, err := openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	_, err = s.save(ctx)
	return err
}

// inspect runs fn against a loaded game without saving
func inspect(ctx context.Context, fn func(*session) error) error {
	s, err := openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// cliLogging sends simulation logs to stderr so stdout stays clean for
// tables and JSON
func cliLogging(cfg config.LoggingConfig) config.LoggingConfig {
	if cfg.Output == "stdout" {
		cfg.Output = "stderr"
	}
	if verbose {
		cfg.Level = "debug"
	} else if strings.EqualFold(cfg.Level, "info") || strings.EqualFold(cfg.Level, "debug") {
		cfg.Level = "warning"
	}
	return cfg
}

func loadPreferences() *config.Preferences {
	store, err := config.NewPreferencesStore()
	if err != nil {
		return &config.Preferences{}
	}
	prefs, err := store.Load()
	if err != nil {
		return &config.Preferences{}
	}
	return prefs
}

func resolveSlot(prefs *config.Preferences) string {
	if slotFlag != "" {
		return slotFlag
	}
	if prefs.DefaultSlot != "" {
		return prefs.DefaultSlot
	}
	return commands.DefaultSnapshotSlot
}

// dialRemote connects to a running bizsimd. An empty address uses the
// configured gRPC listener.
func dialRemote(address string) (*grpcadapter.SimulationClient, error) {
	if address == "" {
		cfg := config.LoadConfigOrDefault(configPath)
		address = cfg.Server.GRPCAddress
	}
	client, err := grpcadapter.NewSimulationClient(address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bizsimd at %s: %w", address, err)
	}
	return client, nil
}

// commandContext bounds a CLI call so a wedged database cannot hang it
func commandContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
