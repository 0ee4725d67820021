package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/primary"
	"github.com/example/curator/internal/ports/secondary"
)

// ============================================================================
// Test Helper
// ============================================================================

func newTestScanService(cfg ScanConfig) (*ScanServiceImpl, *mockRemoteStore, *mockIndexRepository, *mockLogWriter) {
	remote := newMockRemoteStore()
	indexRepo := newMockIndexRepository()
	logWriter := newMockLogWriter()
	service := NewScanService(remote, indexRepo, logWriter, cfg)
	return service, remote, indexRepo, logWriter
}

// seedSnapshot stores one registration row the way a previous scan would.
func seedSnapshot(repo *mockIndexRepository, path, remoteID, refreshedAt string) {
	repo.records = append(repo.records, &secondary.IndexRecord{
		PathKey:      models.ParsePath(path).Key(),
		Path:         path,
		RemoteID:     remoteID,
		RegisteredAt: mockTimestamp,
		RefreshedAt:  refreshedAt,
	})
}

// ============================================================================
// RefreshIndex Tests
// ============================================================================

func TestRefreshIndex_WalksRemoteTree(t *testing.T) {
	service, remote, indexRepo, logWriter := newTestScanService(ScanConfig{})
	ctx := context.Background()

	clothing := remote.addRootFolder("Clothing", "folder-clothing")
	remote.addRootFolder("Objects", "folder-objects")
	remote.addRootItem("Stray Note", "item-1")
	remote.addChildFolder(clothing.ID, "Clothing/Shoes", "Shoes", "folder-shoes")

	resp, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Folders != 3 {
		t.Errorf("expected 3 folders indexed, got %d", resp.Folders)
	}
	if resp.Collisions != 0 {
		t.Errorf("expected 0 collisions, got %d", resp.Collisions)
	}
	if resp.FromSnapshot {
		t.Error("expected a remote walk, not a snapshot load")
	}

	if len(indexRepo.records) != 3 {
		t.Fatalf("expected 3 snapshot rows, got %d", len(indexRepo.records))
	}
	wantOrder := []string{"clothing", "objects", "clothing/shoes"}
	for i, want := range wantOrder {
		if indexRepo.records[i].PathKey != want {
			t.Errorf("row %d: expected path key %q, got %q", i, want, indexRepo.records[i].PathKey)
		}
	}

	if len(logWriter.entries) != 1 || logWriter.entries[0].what != "scan" {
		t.Errorf("expected one scan log entry, got %+v", logWriter.entries)
	}
}

func TestRefreshIndex_SkipsSystemFolders(t *testing.T) {
	service, remote, _, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	remote.addRootFolder("Trash", "folder-trash")
	remote.addRootFolder("Current Outfit", "folder-outfit")
	remote.addRootFolder("Clothing", "folder-clothing")

	resp, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Folders != 1 {
		t.Errorf("expected only the non-system folder indexed, got %d", resp.Folders)
	}
}

func TestRefreshIndex_CountsCollisions(t *testing.T) {
	service, remote, indexRepo, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	remote.addRootFolder("BDSM", "folder-old")
	remote.addRootFolder("BDSM", "folder-new")

	resp, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Folders != 1 {
		t.Errorf("expected 1 canonical path, got %d", resp.Folders)
	}
	if resp.Collisions != 1 {
		t.Errorf("expected 1 collision, got %d", resp.Collisions)
	}
	if len(indexRepo.records) != 2 {
		t.Errorf("expected both registrations persisted, got %d rows", len(indexRepo.records))
	}
}

func TestRefreshIndex_ServesFreshSnapshot(t *testing.T) {
	service, remote, indexRepo, _ := newTestScanService(ScanConfig{SnapshotTTL: time.Hour})
	ctx := context.Background()

	seedSnapshot(indexRepo, "Clothing", "folder-clothing", time.Now().UTC().Format(time.RFC3339))
	remote.listErr = errors.New("remote should not be consulted")

	resp, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.FromSnapshot {
		t.Error("expected the stored snapshot to be served")
	}
	if resp.Folders != 1 {
		t.Errorf("expected 1 folder from snapshot, got %d", resp.Folders)
	}
}

func TestRefreshIndex_ForceWalksDespiteFreshSnapshot(t *testing.T) {
	service, remote, indexRepo, _ := newTestScanService(ScanConfig{SnapshotTTL: time.Hour})
	ctx := context.Background()

	seedSnapshot(indexRepo, "Clothing", "folder-clothing", time.Now().UTC().Format(time.RFC3339))
	remote.addRootFolder("Objects", "folder-objects")

	resp, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{Force: true})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.FromSnapshot {
		t.Error("expected force to ignore the snapshot")
	}
	if resp.Folders != 1 {
		t.Errorf("expected the walked tree, got %d folders", resp.Folders)
	}
	if len(indexRepo.records) != 1 || indexRepo.records[0].PathKey != "objects" {
		t.Errorf("expected the snapshot replaced by the walk, got %+v", indexRepo.records)
	}
}

func TestRefreshIndex_StaleSnapshotWalks(t *testing.T) {
	service, remote, indexRepo, _ := newTestScanService(ScanConfig{SnapshotTTL: time.Hour})
	ctx := context.Background()

	// Refreshed long ago, well past the TTL.
	seedSnapshot(indexRepo, "Clothing", "folder-clothing", mockTimestamp)
	remote.addRootFolder("Objects", "folder-objects")

	resp, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.FromSnapshot {
		t.Error("expected a stale snapshot to trigger a walk")
	}
}

func TestRefreshIndex_RemoteErrorSurfaces(t *testing.T) {
	service, remote, _, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	remote.listErr = errors.New("bridge offline")

	_, err := service.RefreshIndex(ctx, primary.RefreshIndexRequest{})

	if err == nil {
		t.Fatal("expected an error when the remote listing fails")
	}
}

// ============================================================================
// ListCollisions Tests
// ============================================================================

func TestListCollisions_FromStoredSnapshot(t *testing.T) {
	service, _, indexRepo, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	seedSnapshot(indexRepo, "BDSM", "folder-old", mockTimestamp)
	seedSnapshot(indexRepo, "BDSM", "folder-new", mockTimestamp)
	seedSnapshot(indexRepo, "Clothing", "folder-clothing", mockTimestamp)

	collisions, err := service.ListCollisions(ctx)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(collisions))
	}
	if collisions[0].Path != "BDSM" {
		t.Errorf("expected path 'BDSM', got '%s'", collisions[0].Path)
	}
	if len(collisions[0].RemoteIDs) != 2 || collisions[0].RemoteIDs[0] != "folder-old" {
		t.Errorf("expected registration-ordered IDs, got %v", collisions[0].RemoteIDs)
	}
}

func TestListCollisions_EmptyIndex(t *testing.T) {
	service, _, _, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	collisions, err := service.ListCollisions(ctx)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(collisions) != 0 {
		t.Errorf("expected no collisions, got %d", len(collisions))
	}
}

// ============================================================================
// FindDuplicateLeaves Tests
// ============================================================================

func TestFindDuplicateLeaves_AcrossParents(t *testing.T) {
	service, _, indexRepo, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	seedSnapshot(indexRepo, "Clothing/HUDs", "folder-a", mockTimestamp)
	seedSnapshot(indexRepo, "Objects/HUDs", "folder-b", mockTimestamp)
	seedSnapshot(indexRepo, "Clothing/Shoes", "folder-c", mockTimestamp)

	ids, err := service.FindDuplicateLeaves(ctx, "huds")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 duplicate folders, got %d", len(ids))
	}
	// Sorted for stable reporting.
	if ids[0] != "folder-a" || ids[1] != "folder-b" {
		t.Errorf("expected [folder-a folder-b], got %v", ids)
	}
}

func TestFindDuplicateLeaves_SingleFolderIsNotDuplicate(t *testing.T) {
	service, _, indexRepo, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	seedSnapshot(indexRepo, "Clothing/Shoes", "folder-c", mockTimestamp)

	ids, err := service.FindDuplicateLeaves(ctx, "Shoes")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no duplicates, got %v", ids)
	}
}

// ============================================================================
// RegisterFolder Tests
// ============================================================================

func TestRegisterFolder_PersistsRegistration(t *testing.T) {
	service, _, indexRepo, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	err := service.RegisterFolder(ctx, models.ParsePath("Clothing/Shoes"), "folder-shoes")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(indexRepo.records) != 1 {
		t.Fatalf("expected 1 snapshot row, got %d", len(indexRepo.records))
	}
	if indexRepo.records[0].PathKey != "clothing/shoes" {
		t.Errorf("expected path key 'clothing/shoes', got '%s'", indexRepo.records[0].PathKey)
	}

	id, found, err := service.ResolveFolder(ctx, models.ParsePath("Clothing/Shoes"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !found || id != "folder-shoes" {
		t.Errorf("expected the registration resolvable, got id=%q found=%v", id, found)
	}
}

func TestRegisterFolder_PersistenceErrorSurfaces(t *testing.T) {
	service, _, indexRepo, _ := newTestScanService(ScanConfig{})
	ctx := context.Background()

	indexRepo.registerErr = errors.New("disk full")

	err := service.RegisterFolder(ctx, models.ParsePath("Clothing"), "folder-clothing")

	if err == nil {
		t.Fatal("expected an error when persistence fails")
	}
}

// ============================================================================
// LockPath Tests
// ============================================================================

func TestLockPath_SerializesSamePath(t *testing.T) {
	service, _, _, _ := newTestScanService(ScanConfig{})

	unlock := service.LockPath(models.ParsePath("Clothing/Dresses"))

	acquired := make(chan struct{})
	go func() {
		u := service.LockPath(models.ParsePath("Clothing/Dresses"))
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("expected the second worker to block while the lock is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("expected the second worker to acquire the lock after release")
	}
}

func TestLockPath_CaseFoldsKeys(t *testing.T) {
	service, _, _, _ := newTestScanService(ScanConfig{})

	unlock := service.LockPath(models.ParsePath("Clothing"))

	acquired := make(chan struct{})
	go func() {
		u := service.LockPath(models.ParsePath("CLOTHING"))
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("expected differently cased paths to share one lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("expected the lock to be acquirable after release")
	}
}

func TestLockPath_DistinctPathsIndependent(t *testing.T) {
	service, _, _, _ := newTestScanService(ScanConfig{})

	unlock := service.LockPath(models.ParsePath("Clothing/Dresses"))
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		u := service.LockPath(models.ParsePath("Clothing/Shoes"))
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("expected a different path's lock to be free")
	}
}
