package replay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DiskStore archives frames on the local filesystem, one file per frame
// under a directory per session.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) framePath(session string, seq uint64) string {
	return filepath.Join(s.dir, session, fmt.Sprintf("%012d.ops", seq))
}

// Put implements Store.
func (s *DiskStore) Put(_ context.Context, session string, seq uint64, frame []byte) error {
	if err := os.MkdirAll(filepath.Join(s.dir, session), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.framePath(session, seq), frame, 0644)
}

// Get implements Store.
func (s *DiskStore) Get(_ context.Context, session string, seq uint64) ([]byte, error) {
	data, err := os.ReadFile(s.framePath(session, seq))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// List implements Store.
func (s *DiskStore) List(_ context.Context, session string) ([]uint64, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, session))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var seqs []uint64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".ops") {
			continue
		}
		seq, err := strconv.ParseUint(strings.TrimSuffix(name, ".ops"), 10, 64)
		if err != nil {
			continue
		}
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	return seqs, nil
}

// Prune implements Store.
func (s *DiskStore) Prune(_ context.Context, session string, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	dir := filepath.Join(s.dir, session)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
	return nil
}
