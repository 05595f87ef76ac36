package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// SnapshotFileExt is appended to the slot name on disk
const SnapshotFileExt = ".snap.zst"

// FileSnapshotStore keeps one compressed file per slot in a directory
type FileSnapshotStore struct {
	dir   string
	clock shared.Clock
}

func NewFileSnapshotStore(dir string, clock shared.Clock) *FileSnapshotStore {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FileSnapshotStore{dir: dir, clock: clock}
}

func (s *FileSnapshotStore) Save(ctx context.Context, slot string, snap simulation.Snapshot) (common.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return common.SnapshotInfo{}, err
	}
	path, err := s.path(slot)
	if err != nil {
		return common.SnapshotInfo{}, err
	}
	size, err := WriteSnapshotFile(path, snap)
	if err != nil {
		return common.SnapshotInfo{}, err
	}
	now := s.clock.Now().UTC()
	_ = os.Chtimes(path, now, now)
	return common.SnapshotInfo{
		Slot:      slot,
		Version:   snap.Version,
		Clock:     snap.Clock.String(),
		SizeBytes: size,
		SavedAt:   now,
	}, nil
}

func (s *FileSnapshotStore) Load(ctx context.Context, slot string) (simulation.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return simulation.Snapshot{}, err
	}
	path, err := s.path(slot)
	if err != nil {
		return simulation.Snapshot{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return simulation.Snapshot{}, shared.NewNotFoundError("snapshot", slot)
	}
	return ReadSnapshotFile(path)
}

// List decodes each file to report its clock, newest first
func (s *FileSnapshotStore) List(ctx context.Context) ([]common.SnapshotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var infos []common.SnapshotInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SnapshotFileExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		snap, err := ReadSnapshotFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		infos = append(infos, common.SnapshotInfo{
			Slot:      strings.TrimSuffix(e.Name(), SnapshotFileExt),
			Version:   snap.Version,
			Clock:     snap.Clock.String(),
			SizeBytes: int(fi.Size()),
			SavedAt:   fi.ModTime().UTC(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].SavedAt.After(infos[j].SavedAt) })
	return infos, nil
}

func (s *FileSnapshotStore) path(slot string) (string, error) {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return "", shared.NewValidationError("slot", fmt.Sprintf("invalid slot name %q", slot))
	}
	return filepath.Join(s.dir, slot+SnapshotFileExt), nil
}

// WriteSnapshotFile encodes snap to path, creating parent directories, and
// returns the compressed size
func WriteSnapshotFile(path string, snap simulation.Snapshot) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	if err := EncodeSnapshot(f, snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, err
	}
	return int(fi.Size()), nil
}

// ReadSnapshotFile decodes a file written by WriteSnapshotFile
func ReadSnapshotFile(path string) (simulation.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return simulation.Snapshot{}, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}
