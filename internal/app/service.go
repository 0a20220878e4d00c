package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"compass/api/internal/comments"
	"compass/api/internal/config"
	"compass/api/internal/email"
	"compass/api/internal/export"
	"compass/api/internal/records"
	"compass/api/internal/search"
	"compass/api/internal/stats"
	"compass/api/internal/store"
	"compass/api/internal/viewstate"
)

// Record set provenance, surfaced to the dashboard so it can show a banner
// when the data on screen is not live.
const (
	SourceSheet    = "sheet"
	SourceSnapshot = "snapshot"
	SourceSample   = "sample"
)

const snapshotsToKeep = 20

type recordSource interface {
	Fetch(ctx context.Context) ([]records.ObjectiveRecord, error)
}

type snapshotStore interface {
	InsertSnapshot(ctx context.Context, source string, recs []records.ObjectiveRecord) (store.Snapshot, error)
	LatestSnapshot(ctx context.Context) (store.Snapshot, error)
	PruneSnapshots(ctx context.Context, keep int) error
	Ping(ctx context.Context) error
}

type commentStore interface {
	Get(ctx context.Context, id string) (comments.Comment, bool, error)
	Save(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	BulkGet(ctx context.Context, ids []string, selectionKey string) comments.BulkResult
	Online() bool
	Ping(ctx context.Context) error
}

type stateStore interface {
	Load(ctx context.Context) (viewstate.State, error)
	Save(ctx context.Context, state viewstate.State) error
	Ping(ctx context.Context) error
}

type reportExporter interface {
	Export(req export.Request) (*export.Result, error)
}

// RecordSet is the current in-memory record set plus its provenance. Banner
// is non-empty whenever the live fetch failed and a fallback is showing.
type RecordSet struct {
	Records  []records.ObjectiveRecord `json:"records"`
	Count    int                       `json:"count"`
	Source   string                    `json:"source"`
	Banner   string                    `json:"banner,omitempty"`
	LoadedAt time.Time                 `json:"loadedAt"`
}

type Service struct {
	cfg       config.Config
	source    recordSource
	snapshots snapshotStore
	comments  commentStore
	states    stateStore
	email     *email.Service
	exporter  reportExporter

	mu       sync.RWMutex
	recs     []records.ObjectiveRecord
	dataSrc  string
	banner   string
	loadedAt time.Time
}

func New(cfg config.Config, source recordSource, snapshots snapshotStore, commentsStore commentStore, states stateStore, emailSvc *email.Service, exporter reportExporter) *Service {
	return &Service{
		cfg:       cfg,
		source:    source,
		snapshots: snapshots,
		comments:  commentsStore,
		states:    states,
		email:     emailSvc,
		exporter:  exporter,
	}
}

// Bootstrap performs the initial record load. Startup never fails on it: the
// fallback chain bottoms out at the built-in sample set.
func (s *Service) Bootstrap(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload refetches the record set and replaces the in-memory copy wholesale.
// On fetch failure it falls back to the latest archived snapshot, then to
// the built-in sample set, and surfaces a banner either way. The selection
// state is untouched: a reload never resets what the user is looking at.
func (s *Service) Reload(ctx context.Context) (RecordSet, error) {
	recs, err := s.source.Fetch(ctx)
	if err == nil {
		s.setRecords(recs, SourceSheet, "")
		s.archive(ctx, recs)
		return s.Records(), nil
	}
	log.Printf("record fetch failed, falling back: %v", err)

	banner := fmt.Sprintf("No se pudo cargar la hoja de cálculo (%v).", err)
	if snapshot, snapErr := s.snapshots.LatestSnapshot(ctx); snapErr == nil {
		s.setRecords(snapshot.Records, SourceSnapshot,
			banner+fmt.Sprintf(" Mostrando datos archivados del %s.", snapshot.FetchedAt.Format("2006-01-02 15:04")))
		return s.Records(), nil
	}

	s.setRecords(records.SampleRecords(), SourceSample, banner+" Mostrando datos de ejemplo.")
	return s.Records(), nil
}

func (s *Service) setRecords(recs []records.ObjectiveRecord, source, banner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = recs
	s.dataSrc = source
	s.banner = banner
	s.loadedAt = time.Now().UTC()
}

// archive stores a successfully fetched record set as a snapshot. Archive
// failures are logged, never surfaced: the fetch already succeeded.
func (s *Service) archive(ctx context.Context, recs []records.ObjectiveRecord) {
	if _, err := s.snapshots.InsertSnapshot(ctx, SourceSheet, recs); err != nil {
		log.Printf("snapshot archive failed: %v", err)
		return
	}
	if err := s.snapshots.PruneSnapshots(ctx, snapshotsToKeep); err != nil {
		log.Printf("snapshot prune failed: %v", err)
	}
}

// Records returns the current record set with provenance.
func (s *Service) Records() RecordSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.recs
	if recs == nil {
		recs = []records.ObjectiveRecord{}
	}
	return RecordSet{
		Records:  recs,
		Count:    len(recs),
		Source:   s.dataSrc,
		Banner:   s.banner,
		LoadedAt: s.loadedAt,
	}
}

func (s *Service) currentRecords() []records.ObjectiveRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recs
}

// Statistics

func (s *Service) DepartmentStats() []stats.DepartmentStat {
	result := stats.ByDepartment(s.currentRecords())
	if result == nil {
		result = []stats.DepartmentStat{}
	}
	return result
}

func (s *Service) BossStats() []stats.BossStat {
	result := stats.ByBoss(s.currentRecords())
	if result == nil {
		result = []stats.BossStat{}
	}
	return result
}

func (s *Service) OwnerStats(scope stats.Scope) []stats.OwnerStat {
	result := stats.ByOwner(s.currentRecords(), scope)
	if result == nil {
		result = []stats.OwnerStat{}
	}
	return result
}

func (s *Service) Overview() stats.Overview {
	return stats.ComputeOverview(s.currentRecords())
}

func (s *Service) Compliance(scope stats.Scope) stats.Compliance {
	return stats.ComputeCompliance(s.currentRecords(), scope)
}

func (s *Service) CriticalObjectives(limit int) []records.ObjectiveRecord {
	result := stats.Critical(s.currentRecords(), limit)
	if result == nil {
		result = []records.ObjectiveRecord{}
	}
	return result
}

func (s *Service) TopObjectives(limit int) []records.ObjectiveRecord {
	result := stats.Top(s.currentRecords(), limit)
	if result == nil {
		result = []records.ObjectiveRecord{}
	}
	return result
}

// Colors assigns the chart palette to the groups of one dimension. The
// assignment is positional over the sorted listing, so it is stable between
// calls on the same record set.
func (s *Service) Colors(dimension string) map[string]string {
	var keys []string
	switch dimension {
	case viewstate.DimensionBoss:
		for _, b := range s.BossStats() {
			keys = append(keys, b.Boss)
		}
	case "owner":
		for _, o := range s.OwnerStats(stats.Scope{}) {
			keys = append(keys, o.Owner)
		}
	default:
		for _, d := range s.DepartmentStats() {
			keys = append(keys, d.Department)
		}
	}
	return stats.AssignColors(keys)
}

// Search runs the substring search over the current record set.
func (s *Service) Search(query string) search.Results {
	return search.Search(s.currentRecords(), query)
}

// View state

func (s *Service) ViewState(ctx context.Context) (viewstate.State, error) {
	return s.states.Load(ctx)
}

func (s *Service) SetScope(ctx context.Context, dimension, value string) (viewstate.State, error) {
	return s.transition(ctx, func(state *viewstate.State) {
		state.SetScope(dimension, value)
	})
}

func (s *Service) SelectGroup(ctx context.Context, name string) (viewstate.State, error) {
	return s.transition(ctx, func(state *viewstate.State) {
		state.SelectGroup(name)
	})
}

func (s *Service) SelectOwner(ctx context.Context, sel viewstate.OwnerSelection) (viewstate.State, error) {
	return s.transition(ctx, func(state *viewstate.State) {
		state.SelectOwner(sel)
	})
}

func (s *Service) transition(ctx context.Context, apply func(*viewstate.State)) (viewstate.State, error) {
	state, err := s.states.Load(ctx)
	if err != nil {
		return viewstate.State{}, fmt.Errorf("load view state: %w", err)
	}
	apply(&state)
	if err := s.states.Save(ctx, state); err != nil {
		return viewstate.State{}, fmt.Errorf("save view state: %w", err)
	}
	return state, nil
}

// Comments

func (s *Service) CommentFor(ctx context.Context, id string) (comments.Comment, bool, error) {
	return s.comments.Get(ctx, id)
}

func (s *Service) SaveComment(ctx context.Context, id, text string) error {
	return s.comments.Save(ctx, id, text)
}

func (s *Service) DeleteComment(ctx context.Context, id string) error {
	return s.comments.Delete(ctx, id)
}

// BulkComments loads comments for a visible objective set. stale is true
// when the selection has moved on since the request was issued, in which
// case the batch must be discarded rather than applied to the wrong view.
func (s *Service) BulkComments(ctx context.Context, ids []string, selectionKey string) (result comments.BulkResult, stale bool, err error) {
	result = s.comments.BulkGet(ctx, ids, selectionKey)

	state, err := s.states.Load(ctx)
	if err != nil {
		return result, false, fmt.Errorf("load view state: %w", err)
	}
	return result, selectionKey != state.SelectionKey(), nil
}

func (s *Service) CommentsOnline() bool {
	return s.comments.Online()
}

// NotifyComment emails an objective owner about a new comment.
func (s *Service) NotifyComment(n email.CommentNotification) error {
	if s.email == nil || !s.email.IsConfigured() {
		return domainError(http.StatusServiceUnavailable, "EMAIL_UNAVAILABLE", "Email service not configured", nil)
	}
	if err := s.email.SendCommentNotification(n); err != nil {
		return fmt.Errorf("send comment notification: %w", err)
	}
	return nil
}

// ExportReport renders the current record set and selection as a PDF report.
func (s *Service) ExportReport(ctx context.Context) (*export.Result, error) {
	state, err := s.states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load view state: %w", err)
	}
	return s.exporter.Export(export.Request{
		Records:   s.currentRecords(),
		State:     state,
		Generated: time.Now().Format("2006-01-02 15:04"),
	})
}

// Readiness checks

func (s *Service) PingDatabase(ctx context.Context) error {
	return s.snapshots.Ping(ctx)
}

func (s *Service) PingCommentStore(ctx context.Context) error {
	return s.comments.Ping(ctx)
}

func (s *Service) PingStateStore(ctx context.Context) error {
	return s.states.Ping(ctx)
}
