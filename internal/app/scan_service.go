// Package app contains the application services implementing the primary
// ports. Services orchestrate the pure core packages, the repositories
// and the remote store; they hold no business rules of their own.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/curator/internal/core/index"
	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// indexProvider hands out the process-wide folder index. Plan building
// and execution go through this seam so every service sees one view of
// the remote tree per process.
type indexProvider interface {
	// CurrentIndex returns the folder index, loading the stored snapshot
	// on first use. The returned index must not be mutated by callers.
	CurrentIndex(ctx context.Context) (*index.Index, error)

	// ResolveFolder looks up the remote ID registered for a path.
	ResolveFolder(ctx context.Context, path models.CanonicalPath) (string, bool, error)

	// RegisterFolder records a folder discovered or created mid-run, in
	// memory and in the stored snapshot.
	RegisterFolder(ctx context.Context, path models.CanonicalPath, remoteID string) error

	// LockPath takes the create lock for one path. A worker that misses
	// the index holds it across the probe-then-create of that folder, so
	// parallel plans sharing an ancestor cannot create it twice. The
	// returned func releases the lock.
	LockPath(path models.CanonicalPath) func()
}

// ScanConfig tunes index refresh behavior.
type ScanConfig struct {
	// SnapshotTTL is how old the stored snapshot may be before
	// RefreshIndex re-walks the remote tree. Zero or negative always
	// walks.
	SnapshotTTL time.Duration
}

// ScanServiceImpl implements the ScanService interface and owns the
// process-wide folder index.
type ScanServiceImpl struct {
	remote    secondary.RemoteStore
	indexRepo secondary.IndexRepository
	logWriter secondary.LogWriter
	cfg       ScanConfig

	// mu guards the index; the executor's plan workers resolve folders
	// concurrently and take the write side only to register or swap.
	mu  sync.RWMutex
	idx *index.Index

	// createMu guards the per-path locks handed out by LockPath.
	createMu sync.Mutex
	creating map[string]*sync.Mutex
}

// NewScanService creates a new ScanService with injected dependencies.
func NewScanService(remote secondary.RemoteStore, indexRepo secondary.IndexRepository, logWriter secondary.LogWriter, cfg ScanConfig) *ScanServiceImpl {
	return &ScanServiceImpl{
		remote:    remote,
		indexRepo: indexRepo,
		logWriter: logWriter,
		cfg:       cfg,
		creating:  make(map[string]*sync.Mutex),
	}
}

// RefreshIndex walks the remote tree and rebuilds the folder index,
// persisting the snapshot wholesale. With Force false a fresh-enough
// stored snapshot is served without touching the remote store.
func (s *ScanServiceImpl) RefreshIndex(ctx context.Context, req primary.RefreshIndexRequest) (*primary.RefreshIndexResponse, error) {
	// 1. Serve the stored snapshot when it is fresh enough
	if !req.Force {
		idx, fresh, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		if fresh {
			s.mu.Lock()
			s.idx = idx
			s.mu.Unlock()
			return &primary.RefreshIndexResponse{
				Folders:      idx.Len(),
				Collisions:   len(idx.Collisions()),
				FromSnapshot: true,
			}, nil
		}
	}

	// 2. Walk the tree breadth-first from the inventory root
	idx := index.New()
	now := time.Now().UTC()

	roots, err := s.remote.ListRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory root: %w", err)
	}

	type frame struct {
		folderID string
		path     models.CanonicalPath
	}
	var worklist []frame
	for _, e := range roots {
		if !e.Folder || models.IsSystemFolder(e.Name) {
			continue
		}
		p := models.CanonicalPath{e.Name}
		idx.Register(p, e.ID, now)
		worklist = append(worklist, frame{folderID: e.ID, path: p})
	}

	for len(worklist) > 0 {
		f := worklist[0]
		worklist = worklist[1:]

		children, err := s.remote.List(ctx, f.folderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", f.path, err)
		}
		for _, e := range children {
			if !e.Folder {
				continue
			}
			p := f.path.Child(e.Name)
			idx.Register(p, e.ID, now)
			worklist = append(worklist, frame{folderID: e.ID, path: p})
		}
	}

	// 3. Persist every registration in arrival order
	regs := idx.Registrations()
	records := make([]*secondary.IndexRecord, 0, len(regs))
	for _, r := range regs {
		records = append(records, &secondary.IndexRecord{
			PathKey:      r.Path.Key(),
			Path:         r.Path.String(),
			RemoteID:     r.RemoteID,
			RegisteredAt: r.At.Format(time.RFC3339),
		})
	}
	if err := s.indexRepo.ReplaceSnapshot(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to persist index snapshot: %w", err)
	}

	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()

	// 4. Audit the scan
	collisions := len(idx.Collisions())
	detail := fmt.Sprintf("%d folders indexed, %d collisions", idx.Len(), collisions)
	if err := s.logWriter.LogRun(ctx, "scan", "", detail); err != nil {
		return nil, fmt.Errorf("failed to log scan: %w", err)
	}

	return &primary.RefreshIndexResponse{
		Folders:    idx.Len(),
		Collisions: collisions,
	}, nil
}

// ListCollisions returns canonical paths occupied by more than one remote
// folder.
func (s *ScanServiceImpl) ListCollisions(ctx context.Context) ([]*primary.Collision, error) {
	idx, err := s.CurrentIndex(ctx)
	if err != nil {
		return nil, err
	}

	groups := idx.Collisions()
	out := make([]*primary.Collision, 0, len(groups))
	for _, g := range groups {
		out = append(out, &primary.Collision{
			Path:      g.Path.String(),
			RemoteIDs: g.IDs,
		})
	}
	return out, nil
}

// FindDuplicateLeaves reports folders sharing a leaf name across different
// parents.
func (s *ScanServiceImpl) FindDuplicateLeaves(ctx context.Context, leafName string) ([]string, error) {
	idx, err := s.CurrentIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.FindDuplicates(leafName), nil
}

// CurrentIndex returns the in-memory index, loading the stored snapshot on
// first use. A stale snapshot is fine here; callers that need a fresh walk
// go through RefreshIndex.
func (s *ScanServiceImpl) CurrentIndex(ctx context.Context) (*index.Index, error) {
	s.mu.RLock()
	if s.idx != nil {
		idx := s.idx
		s.mu.RUnlock()
		return idx, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(ctx)
}

// ResolveFolder looks up the remote ID registered for a path.
func (s *ScanServiceImpl) ResolveFolder(ctx context.Context, path models.CanonicalPath) (string, bool, error) {
	s.mu.RLock()
	if s.idx != nil {
		id, ok := s.idx.Resolve(path)
		s.mu.RUnlock()
		return id, ok, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.currentLocked(ctx)
	if err != nil {
		return "", false, err
	}
	id, ok := idx.Resolve(path)
	return id, ok, nil
}

// RegisterFolder records a folder discovered or created mid-run, both in
// memory and in the stored snapshot.
func (s *ScanServiceImpl) RegisterFolder(ctx context.Context, path models.CanonicalPath, remoteID string) error {
	now := time.Now().UTC()

	s.mu.Lock()
	idx, err := s.currentLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	idx.Register(path, remoteID, now)
	s.mu.Unlock()

	record := &secondary.IndexRecord{
		PathKey:      path.Key(),
		Path:         path.String(),
		RemoteID:     remoteID,
		RegisteredAt: now.Format(time.RFC3339),
	}
	if err := s.indexRepo.Register(ctx, record); err != nil {
		return fmt.Errorf("failed to persist registration of %s: %w", path, err)
	}
	return nil
}

// LockPath takes the create lock for path. Workers hold it across the
// probe-then-create window so two plans missing the same folder do not
// both create it.
func (s *ScanServiceImpl) LockPath(path models.CanonicalPath) func() {
	key := path.Key()

	s.createMu.Lock()
	l, ok := s.creating[key]
	if !ok {
		l = &sync.Mutex{}
		s.creating[key] = l
	}
	s.createMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *ScanServiceImpl) currentLocked(ctx context.Context) (*index.Index, error) {
	if s.idx != nil {
		return s.idx, nil
	}
	idx, _, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		idx = index.New()
	}
	s.idx = idx
	return s.idx, nil
}

// loadSnapshot rebuilds an index by replaying the stored registrations in
// order. fresh reports whether the snapshot is younger than the TTL.
func (s *ScanServiceImpl) loadSnapshot(ctx context.Context) (*index.Index, bool, error) {
	records, err := s.indexRepo.LoadSnapshot(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load index snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	idx := index.New()
	var newest time.Time
	for _, rec := range records {
		registeredAt, err := time.Parse(time.RFC3339, rec.RegisteredAt)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse snapshot row %s: %w", rec.PathKey, err)
		}
		idx.Register(models.ParsePath(rec.Path), rec.RemoteID, registeredAt)

		if rec.RefreshedAt != "" {
			if t, err := time.Parse(time.RFC3339, rec.RefreshedAt); err == nil && t.After(newest) {
				newest = t
			}
		}
	}

	fresh := s.cfg.SnapshotTTL > 0 && !newest.IsZero() && time.Since(newest) <= s.cfg.SnapshotTTL
	return idx, fresh, nil
}

// Ensure ScanServiceImpl implements the interfaces
var _ primary.ScanService = (*ScanServiceImpl)(nil)
var _ indexProvider = (*ScanServiceImpl)(nil)
