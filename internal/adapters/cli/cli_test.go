package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/database"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/pidfile"
)

type cliFixture struct {
	dir        string
	configFile string
	dbPath     string
	pidPath    string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	configs := filepath.Join(filepath.Dir(file), "..", "..", "..", "configs")

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	f := &cliFixture{
		dir:        dir,
		configFile: filepath.Join(dir, "config.yaml"),
		dbPath:     filepath.Join(dir, "bizsim.db"),
		pidPath:    filepath.Join(dir, "bizsim.pid"),
	}
	yaml := fmt.Sprintf(`database:
  type: sqlite
  path: %s
simulation:
  start_hour: 8
  base_customers_per_hour: 0
  tuning_file: %s
  scenario_file: %s
logging:
  level: warning
  output: stderr
  persist: true
server:
  pid_file: %s
`, f.dbPath, filepath.Join(configs, "tuning.yaml"), filepath.Join(configs, "scenario.yaml"), f.pidPath)
	require.NoError(t, os.WriteFile(f.configFile, []byte(yaml), 0o644))
	return f
}

func (f *cliFixture) run(args ...string) error {
	configPath, slotFlag, businessID, jsonOutput, verbose = "", "", "", false, false
	root := NewRootCommand()
	root.SetArgs(append([]string{"--config", f.configFile}, args...))
	root.SetOut(os.Stderr)
	return root.ExecuteContext(context.Background())
}

func (f *cliFixture) load(t *testing.T, slot string) (int, int, int) {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = f.dbPath
	db, err := database.Open(&cfg.Database)
	require.NoError(t, err)
	defer database.Close(db)
	snap, err := persistence.NewGormSnapshotRepository(db, nil).Load(context.Background(), slot)
	require.NoError(t, err)
	return snap.Clock.Hour, len(snap.Directory.Workers), len(snap.Queue.Open)
}

func TestNewAdvanceAndAddWork(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)

	// Act
	require.NoError(t, f.run("new"))
	require.NoError(t, f.run("work-order", "add", "--name", "Restock dairy", "--type", "stocking", "--priority", "high"))
	require.NoError(t, f.run("staff", "hire", "--template", "cashier"))
	require.NoError(t, f.run("advance", "--hours", "2"))

	// Assert
	hour, workers, open := f.load(t, commands.DefaultSnapshotSlot)
	assert.Equal(t, 10, hour)
	assert.Equal(t, 7, workers)
	assert.LessOrEqual(t, open, 1)
}

func TestNew_RefusesToOverwriteWithoutForce(t *testing.T) {
	f := newCLIFixture(t)
	require.NoError(t, f.run("new"))

	err := f.run("new")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already holds a game")
	assert.NoError(t, f.run("new", "--force"))
}

func TestCommands_NeedASavedGame(t *testing.T) {
	f := newCLIFixture(t)

	err := f.run("dashboard")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'bizsim new' first")
}

func TestSlots_CopyExportImport(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	require.NoError(t, f.run("new"))
	require.NoError(t, f.run("advance", "--ticks", "30"))
	file := filepath.Join(f.dir, "export.snap.zst")

	// Act
	require.NoError(t, f.run("snapshot", "copy", "backup"))
	require.NoError(t, f.run("snapshot", "export", "--file", file))
	require.NoError(t, f.run("--slot", "replay", "snapshot", "import", "--file", file))
	require.NoError(t, f.run("snapshot", "delete", "backup"))

	// Assert
	hour, _, _ := f.load(t, "replay")
	assert.Equal(t, 8, hour)
	_, err := os.Stat(file)
	assert.NoError(t, err)
}

func TestSelectRemember_SkipsPreferenceOnFailure(t *testing.T) {
	f := newCLIFixture(t)
	require.NoError(t, f.run("new"))

	err := f.run("business", "select", "missing-id", "--remember")

	assert.Error(t, err)
	assert.Empty(t, loadPreferences().DefaultBusinessID)
}

func TestOfflineCommands_RefuseWhileServerRuns(t *testing.T) {
	// Arrange
	f := newCLIFixture(t)
	require.NoError(t, f.run("new"))
	require.NoError(t, os.WriteFile(f.pidPath, []byte(strconv.Itoa(os.Getppid())), 0o644))
	t.Cleanup(func() { _ = os.Remove(f.pidPath) })

	// Act
	err := f.run("advance", "--ticks", "5")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pidfile.ErrAlreadyRunning)
}

func TestConfigPreferences(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.run("config", "set-slot", "weekend"))
	require.NoError(t, f.run("config", "set-business", "id-1"))
	prefs := loadPreferences()
	require.NoError(t, f.run("config", "clear"))

	assert.Equal(t, "weekend", prefs.DefaultSlot)
	assert.Equal(t, "id-1", prefs.DefaultBusinessID)
	assert.Equal(t, config.Preferences{}, *loadPreferences())
}
