package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/curator/internal/core/index"
	"github.com/example/curator/internal/models"
	"github.com/example/curator/internal/ports/secondary"
)

// Ensure the shared mocks implement their interfaces
var _ secondary.RuleRepository = (*mockRuleRepository)(nil)
var _ secondary.PlanRepository = (*mockPlanRepository)(nil)
var _ secondary.OperationRepository = (*mockOperationRepository)(nil)
var _ secondary.IndexRepository = (*mockIndexRepository)(nil)
var _ secondary.SuggestionRepository = (*mockSuggestionRepository)(nil)
var _ secondary.RemoteStore = (*mockRemoteStore)(nil)
var _ secondary.CategoryAdvisor = (*mockAdvisor)(nil)
var _ secondary.ReportArchive = (*mockArchive)(nil)
var _ secondary.LogWriter = (*mockLogWriter)(nil)
var _ secondary.ActivityRepository = (*mockActivityRepository)(nil)
var _ indexProvider = (*mockIndexProvider)(nil)

const mockTimestamp = "2025-06-01T12:00:00Z"

// ============================================================================
// mockRuleRepository
// ============================================================================

// mockRuleRepository implements secondary.RuleRepository for testing.
type mockRuleRepository struct {
	rules      []*secondary.RuleRecord
	replaceErr error
	listErr    error
}

func newMockRuleRepository() *mockRuleRepository {
	return &mockRuleRepository{}
}

func (m *mockRuleRepository) ReplaceAll(ctx context.Context, rules []*secondary.RuleRecord) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.rules = rules
	return nil
}

func (m *mockRuleRepository) List(ctx context.Context) ([]*secondary.RuleRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*secondary.RuleRecord, len(m.rules))
	copy(out, m.rules)
	return out, nil
}

func (m *mockRuleRepository) Count(ctx context.Context) (int, error) {
	return len(m.rules), nil
}

// keywordRule builds a stored keyword rule for tests.
func keywordRule(name string, priority, seq int, keywords []string, target string) *secondary.RuleRecord {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return &secondary.RuleRecord{
		Name:        name,
		Priority:    priority,
		Seq:         seq,
		MatcherKind: models.MatcherKeywords,
		Keywords:    "[" + strings.Join(quoted, ",") + "]",
		TargetPath:  target,
		CreatedAt:   mockTimestamp,
	}
}

// ============================================================================
// mockPlanRepository
// ============================================================================

// mockPlanRepository implements secondary.PlanRepository for testing. It
// mirrors the sqlite repository's semantics: GetByID errors on a missing
// plan, Claim is a status-predicated update, Finish refuses plans that are
// not executing. Mutex-guarded because the executor runs plans in parallel.
type mockPlanRepository struct {
	mu              sync.Mutex
	plans           map[string]*secondary.PlanRecord
	order           []string
	nextID          int
	createErr       error
	getErr          error
	listErr         error
	updateStatusErr error
	claimErr        error
	finishErr       error
	deleteErr       error
	nextIDErr       error
}

func newMockPlanRepository() *mockPlanRepository {
	return &mockPlanRepository{
		plans:  make(map[string]*secondary.PlanRecord),
		nextID: 1,
	}
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *secondary.PlanRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *plan
	if stored.CreatedAt == "" {
		stored.CreatedAt = mockTimestamp
	}
	if stored.UpdatedAt == "" {
		stored.UpdatedAt = mockTimestamp
	}
	m.plans[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return nil
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id string) (*secondary.PlanRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if plan, ok := m.plans[id]; ok {
		copied := *plan
		return &copied, nil
	}
	return nil, fmt.Errorf("plan %s not found", id)
}

func (m *mockPlanRepository) List(ctx context.Context, filters secondary.PlanFilters) ([]*secondary.PlanRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.PlanRecord
	for _, id := range m.order {
		p, ok := m.plans[id]
		if !ok {
			continue
		}
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		copied := *p
		result = append(result, &copied)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockPlanRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return fmt.Errorf("plan %s not found", id)
	}
	plan.Status = status
	plan.UpdatedAt = mockTimestamp
	return nil
}

func (m *mockPlanRepository) Claim(ctx context.Context, id, runID string) (bool, error) {
	if m.claimErr != nil {
		return false, m.claimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return false, nil
	}
	switch plan.Status {
	case models.PlanStatusPending, models.PlanStatusFailed, models.PlanStatusExecuted:
		plan.Status = models.PlanStatusExecuting
		plan.RunID = runID
		return true, nil
	}
	return false, nil
}

func (m *mockPlanRepository) Finish(ctx context.Context, id, status string) error {
	if m.finishErr != nil {
		return m.finishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok || plan.Status != models.PlanStatusExecuting {
		return fmt.Errorf("plan %s is not executing", id)
	}
	plan.Status = status
	plan.ExecutedAt = mockTimestamp
	plan.UpdatedAt = mockTimestamp
	return nil
}

func (m *mockPlanRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
	return nil
}

func (m *mockPlanRepository) GetNextID(ctx context.Context) (string, error) {
	if m.nextIDErr != nil {
		return "", m.nextIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("PLAN-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// storedPlan seeds a plan directly, bypassing Create bookkeeping.
func (m *mockPlanRepository) storedPlan(id, category, status string, opCount int) *secondary.PlanRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan := &secondary.PlanRecord{
		ID:        id,
		Category:  category,
		Status:    status,
		OpCount:   opCount,
		CreatedAt: mockTimestamp,
		UpdatedAt: mockTimestamp,
	}
	m.plans[id] = plan
	m.order = append(m.order, id)
	return plan
}

// ============================================================================
// mockOperationRepository
// ============================================================================

// mockOperationRepository implements secondary.OperationRepository for
// testing.
type mockOperationRepository struct {
	mu             sync.Mutex
	ops            map[string][]*secondary.OperationRecord
	createBatchErr error
	listErr        error
	updateErr      error
	resetErr       error
	countErr       error
}

func newMockOperationRepository() *mockOperationRepository {
	return &mockOperationRepository{
		ops: make(map[string][]*secondary.OperationRecord),
	}
}

func (m *mockOperationRepository) CreateBatch(ctx context.Context, planID string, ops []*secondary.OperationRecord) error {
	if m.createBatchErr != nil {
		return m.createBatchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range ops {
		copied := *op
		copied.PlanID = planID
		m.ops[planID] = append(m.ops[planID], &copied)
	}
	return nil
}

func (m *mockOperationRepository) ListByPlan(ctx context.Context, planID string) ([]*secondary.OperationRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.OperationRecord, 0, len(m.ops[planID]))
	for _, op := range m.ops[planID] {
		copied := *op
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockOperationRepository) UpdateOutcome(ctx context.Context, planID string, seq int, outcome, reason string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.ops[planID] {
		if op.Seq == seq {
			op.Outcome = outcome
			op.Reason = reason
			op.ExecutedAt = mockTimestamp
			return nil
		}
	}
	return fmt.Errorf("operation %d of plan %s not found", seq, planID)
}

func (m *mockOperationRepository) ResetOutcomes(ctx context.Context, planID string) error {
	if m.resetErr != nil {
		return m.resetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.ops[planID] {
		if op.Outcome == models.OutcomeFailed {
			op.Outcome = models.OutcomePending
			op.Reason = ""
		}
	}
	return nil
}

func (m *mockOperationRepository) CountByOutcome(ctx context.Context, planID string) (map[string]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, op := range m.ops[planID] {
		counts[op.Outcome]++
	}
	return counts, nil
}

// ============================================================================
// mockIndexRepository
// ============================================================================

// mockIndexRepository implements secondary.IndexRepository for testing.
// Records keep insertion order, as the sqlite snapshot does.
type mockIndexRepository struct {
	records     []*secondary.IndexRecord
	replaceErr  error
	loadErr     error
	registerErr error
}

func newMockIndexRepository() *mockIndexRepository {
	return &mockIndexRepository{}
}

func (m *mockIndexRepository) ReplaceSnapshot(ctx context.Context, entries []*secondary.IndexRecord) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.records = nil
	for _, e := range entries {
		copied := *e
		if copied.RefreshedAt == "" {
			copied.RefreshedAt = mockTimestamp
		}
		m.records = append(m.records, &copied)
	}
	return nil
}

func (m *mockIndexRepository) LoadSnapshot(ctx context.Context) ([]*secondary.IndexRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]*secondary.IndexRecord, 0, len(m.records))
	for _, r := range m.records {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockIndexRepository) Register(ctx context.Context, entry *secondary.IndexRecord) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	for _, r := range m.records {
		if r.PathKey == entry.PathKey && r.RemoteID == entry.RemoteID {
			r.Path = entry.Path
			r.RefreshedAt = mockTimestamp
			return nil
		}
	}
	copied := *entry
	if copied.RefreshedAt == "" {
		copied.RefreshedAt = mockTimestamp
	}
	m.records = append(m.records, &copied)
	return nil
}

func (m *mockIndexRepository) Count(ctx context.Context) (int, error) {
	return len(m.records), nil
}

// ============================================================================
// mockSuggestionRepository
// ============================================================================

// mockSuggestionRepository implements secondary.SuggestionRepository for
// testing. GetByName returns nil for missing names, as the sqlite
// repository does.
type mockSuggestionRepository struct {
	suggestions map[string]*secondary.SuggestionRecord
	order       []string
	upsertErr   error
	getErr      error
	listErr     error
	deleteErr   error
}

func newMockSuggestionRepository() *mockSuggestionRepository {
	return &mockSuggestionRepository{
		suggestions: make(map[string]*secondary.SuggestionRecord),
	}
}

func (m *mockSuggestionRepository) Upsert(ctx context.Context, suggestion *secondary.SuggestionRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	copied := *suggestion
	if copied.CreatedAt == "" {
		copied.CreatedAt = mockTimestamp
	}
	if _, ok := m.suggestions[copied.Name]; !ok {
		m.order = append(m.order, copied.Name)
	}
	m.suggestions[copied.Name] = &copied
	return nil
}

func (m *mockSuggestionRepository) GetByName(ctx context.Context, name string) (*secondary.SuggestionRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.suggestions[name]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *mockSuggestionRepository) List(ctx context.Context, filters secondary.SuggestionFilters) ([]*secondary.SuggestionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.SuggestionRecord
	for _, name := range m.order {
		s, ok := m.suggestions[name]
		if !ok {
			continue
		}
		if filters.Source != "" && s.Source != filters.Source {
			continue
		}
		copied := *s
		result = append(result, &copied)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockSuggestionRepository) Delete(ctx context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.suggestions, name)
	return nil
}

// ============================================================================
// mockRemoteStore
// ============================================================================

// mockRemoteStore implements secondary.RemoteStore for testing. Folders
// are a flat ID-keyed tree; created folders get minted IDs and become
// resolvable immediately. Mutex-guarded because the executor runs plans
// in parallel.
type mockRemoteStore struct {
	mu          sync.Mutex
	rootEntries []*secondary.RemoteEntry
	children    map[string][]*secondary.RemoteEntry
	folderIDs   map[string]string // lowercased path -> remote ID
	nextFolder  int

	createdFolders []string          // paths passed to CreateFolder
	movedItems     map[string]string // itemID -> destination path
	movedContents  map[string]string // folderID -> destination path
	contentCounts  map[string]int    // folderID -> items reported moved

	pingErr         error
	listErr         error
	createFolderErr error
	moveItemErr     error
	moveContentsErr error
	resolveErr      error
	failItems       map[string]error // itemID -> error for that move
}

func newMockRemoteStore() *mockRemoteStore {
	return &mockRemoteStore{
		children:      make(map[string][]*secondary.RemoteEntry),
		folderIDs:     make(map[string]string),
		nextFolder:    1,
		movedItems:    make(map[string]string),
		movedContents: make(map[string]string),
		contentCounts: make(map[string]int),
		failItems:     make(map[string]error),
	}
}

// addRootFolder registers a folder under the root and returns its entry.
func (m *mockRemoteStore) addRootFolder(name, id string) *secondary.RemoteEntry {
	e := &secondary.RemoteEntry{ID: id, Name: name, Folder: true}
	m.rootEntries = append(m.rootEntries, e)
	m.folderIDs[strings.ToLower(name)] = id
	return e
}

// addRootItem registers a non-folder entry under the root.
func (m *mockRemoteStore) addRootItem(name, id string) *secondary.RemoteEntry {
	e := &secondary.RemoteEntry{ID: id, Name: name, Folder: false}
	m.rootEntries = append(m.rootEntries, e)
	return e
}

// addChildFolder registers a folder under a parent, path used for resolution.
func (m *mockRemoteStore) addChildFolder(parentID, path, name, id string) *secondary.RemoteEntry {
	e := &secondary.RemoteEntry{ID: id, ParentID: parentID, Name: name, Folder: true}
	m.children[parentID] = append(m.children[parentID], e)
	m.folderIDs[strings.ToLower(path)] = id
	return e
}

func (m *mockRemoteStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockRemoteStore) ListRoot(ctx context.Context) ([]*secondary.RemoteEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rootEntries, nil
}

func (m *mockRemoteStore) List(ctx context.Context, folderID string) ([]*secondary.RemoteEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.children[folderID], nil
}

func (m *mockRemoteStore) CreateFolder(ctx context.Context, parentPath []string, name string) (string, error) {
	if m.createFolderErr != nil {
		return "", m.createFolderErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	segments := append(append([]string{}, parentPath...), name)
	path := strings.Join(segments, "/")
	id := fmt.Sprintf("folder-new-%03d", m.nextFolder)
	m.nextFolder++
	m.folderIDs[strings.ToLower(path)] = id
	m.createdFolders = append(m.createdFolders, path)
	return id, nil
}

func (m *mockRemoteStore) MoveItem(ctx context.Context, itemID string, destination []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failItems[itemID]; ok {
		return err
	}
	if m.moveItemErr != nil {
		return m.moveItemErr
	}
	m.movedItems[itemID] = strings.Join(destination, "/")
	return nil
}

func (m *mockRemoteStore) MoveFolderContents(ctx context.Context, folderID string, destination []string) (int, error) {
	if m.moveContentsErr != nil {
		return 0, m.moveContentsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movedContents[folderID] = strings.Join(destination, "/")
	if count, ok := m.contentCounts[folderID]; ok {
		return count, nil
	}
	return len(m.children[folderID]), nil
}

func (m *mockRemoteStore) ResolveFolderID(ctx context.Context, path []string) (string, error) {
	if m.resolveErr != nil {
		return "", m.resolveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.folderIDs[strings.ToLower(strings.Join(path, "/"))], nil
}

// ============================================================================
// mockAdvisor
// ============================================================================

// mockAdvisor implements secondary.CategoryAdvisor for testing.
type mockAdvisor struct {
	responses map[string]*secondary.AdvisorSuggestion
	calls     []string
	err       error
}

func newMockAdvisor() *mockAdvisor {
	return &mockAdvisor{
		responses: make(map[string]*secondary.AdvisorSuggestion),
	}
}

func (m *mockAdvisor) SuggestCategory(ctx context.Context, name string, categories []string) (*secondary.AdvisorSuggestion, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.responses[name]; ok {
		return s, nil
	}
	return &secondary.AdvisorSuggestion{Category: "Objects", Confidence: 0.5}, nil
}

// ============================================================================
// mockArchive
// ============================================================================

// mockArchive implements secondary.ReportArchive for testing.
type mockArchive struct {
	uploads   map[string][]byte
	uploadErr error
}

func newMockArchive() *mockArchive {
	return &mockArchive{
		uploads: make(map[string][]byte),
	}
}

func (m *mockArchive) Upload(ctx context.Context, name string, payload []byte, contentType string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads[name] = payload
	return "reports/" + name, nil
}

// ============================================================================
// mockLogWriter
// ============================================================================

// logEntry captures one audit write for assertions.
type logEntry struct {
	kind   string // "create", "status", "run"
	what   string // entity type or run action
	id     string
	detail string
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	mu      sync.Mutex
	entries []logEntry
	err     error
}

func newMockLogWriter() *mockLogWriter {
	return &mockLogWriter{}
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{kind: "create", what: entityType, id: entityID})
	return nil
}

func (m *mockLogWriter) LogStatusChange(ctx context.Context, entityType, entityID, oldStatus, newStatus string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{kind: "status", what: entityType, id: entityID, detail: oldStatus + "->" + newStatus})
	return nil
}

func (m *mockLogWriter) LogRun(ctx context.Context, action, planID, detail string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{kind: "run", what: action, id: planID, detail: detail})
	return nil
}

// ============================================================================
// mockActivityRepository
// ============================================================================

// mockActivityRepository implements secondary.ActivityRepository for
// testing.
type mockActivityRepository struct {
	records   []*secondary.ActivityRecord
	appendErr error
	listErr   error
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{}
}

func (m *mockActivityRepository) Append(ctx context.Context, entry *secondary.ActivityRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	copied := *entry
	copied.ID = int64(len(m.records) + 1)
	m.records = append(m.records, &copied)
	return nil
}

func (m *mockActivityRepository) ListRecent(ctx context.Context, planID string, limit int) ([]*secondary.ActivityRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.ActivityRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if planID != "" && r.PlanID != planID {
			continue
		}
		copied := *r
		result = append(result, &copied)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// ============================================================================
// mockIndexProvider
// ============================================================================

// mockIndexProvider implements the indexProvider seam over a plain
// in-memory index, for services that consume the index without owning it.
// Mutex-guarded because the executor runs plans in parallel.
type mockIndexProvider struct {
	mu          sync.Mutex
	idx         *index.Index
	creating    map[string]*sync.Mutex
	currentErr  error
	resolveErr  error
	registerErr error
	registered  []string // "path=id" in call order
}

func newMockIndexProvider() *mockIndexProvider {
	return &mockIndexProvider{
		idx:      index.New(),
		creating: make(map[string]*sync.Mutex),
	}
}

// register seeds the underlying index directly.
func (m *mockIndexProvider) register(path string, remoteID string) {
	m.idx.Register(models.ParsePath(path), remoteID, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func (m *mockIndexProvider) CurrentIndex(ctx context.Context) (*index.Index, error) {
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	return m.idx, nil
}

func (m *mockIndexProvider) ResolveFolder(ctx context.Context, path models.CanonicalPath) (string, bool, error) {
	if m.resolveErr != nil {
		return "", false, m.resolveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.idx.Resolve(path)
	return id, ok, nil
}

func (m *mockIndexProvider) RegisterFolder(ctx context.Context, path models.CanonicalPath, remoteID string) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idx.Register(path, remoteID, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	m.registered = append(m.registered, path.String()+"="+remoteID)
	return nil
}

func (m *mockIndexProvider) LockPath(path models.CanonicalPath) func() {
	m.mu.Lock()
	l, ok := m.creating[path.Key()]
	if !ok {
		l = &sync.Mutex{}
		m.creating[path.Key()] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
