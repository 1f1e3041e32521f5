package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/loadsight/pallet-analysis/internal/metrics"
	"github.com/loadsight/pallet-analysis/internal/repository"
	"github.com/loadsight/pallet-analysis/internal/service/cache"
)

// Session errors.
var (
	ErrSessionNotFound = errors.New("load session not found")
	ErrPalletIndex     = errors.New("pallet index out of range")
	ErrInvalidStep     = errors.New("step out of range")
	ErrUnknownAction   = errors.New("unknown mutation action")
)

// MutationAction identifies a placed-box-set mutation.
type MutationAction string

const (
	// ActionPlace places the next box in sequence order.
	ActionPlace MutationAction = "place"
	// ActionRemove removes the most recently placed box.
	ActionRemove MutationAction = "remove"
	// ActionSeek jumps to an absolute placement step.
	ActionSeek MutationAction = "seek"
	// ActionReset clears all placed boxes.
	ActionReset MutationAction = "reset"
)

// Session holds the replay state for one parsed load: the order, the
// active pallet, and how many of its boxes are currently placed. Every
// mutation recomputes all calculators synchronously and stores the
// resulting immutable snapshot.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// mu serializes mutations; the calculators themselves are pure but
	// the HTTP host may deliver mutations concurrently.
	mu sync.Mutex

	order     *model.Order
	palletIdx int
	// placed is how many of the active pallet's boxes are on the stack,
	// as a prefix of the sequence-ordered box list.
	placed int
	// heightCm is the externally supplied stack height; zero means derive
	// it from the placed geometry.
	heightCm float64
	snapshot model.MetricsSnapshot
}

// Order returns the parsed order backing this session.
func (s *Session) Order() *model.Order { return s.order }

// PalletIndex returns the index of the active pallet.
func (s *Session) PalletIndex() int { return s.palletIdx }

// Placed returns the number of currently placed boxes.
func (s *Session) Placed() int { return s.placed }

// Snapshot returns the metrics snapshot from the latest recomputation.
func (s *Session) Snapshot() model.MetricsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// SessionManager owns load sessions and runs the calculators on every
// mutation of the placed-box set.
type SessionManager interface {
	// Create installs a freshly parsed order as a new session with no
	// boxes placed and returns it.
	Create(order *model.Order) (*Session, error)

	// Get returns the session with the given ID.
	Get(id string) (*Session, error)

	// Apply performs one mutation and returns the resulting snapshot.
	// step is only consulted for ActionSeek. heightCm overrides the
	// derived stack height when positive.
	Apply(id string, action MutationAction, step int, heightCm float64) (model.MetricsSnapshot, error)

	// SelectPallet switches the active pallet and resets placement.
	SelectPallet(id string, palletIdx int) (model.MetricsSnapshot, error)

	// Analyze runs all calculators once against an explicit box list,
	// with no session state involved.
	Analyze(boxes []model.Box, heightCm float64) model.MetricsSnapshot

	// History returns the persisted snapshot history of a session,
	// newest first. Returns an empty slice when persistence is disabled.
	History(ctx context.Context, id string, limit int) ([]repository.SnapshotDocument, error)

	// Stop releases background resources.
	Stop()
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// SessionService implements SessionManager on top of the TTL session
// store and the injected calculators.
type SessionService struct {
	store     cache.CacheWithMetrics[*Session]
	grid      WeightGridCalculator
	stability StabilityCalculator
	volume    VolumeCalculator
	centroids CentroidProvider
	history   repository.SnapshotsRepositoryInterface
}

// NewSessionService creates a SessionService. All calculators default to
// their standard construction and can be replaced via options.
func NewSessionService(opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:     NewTTLCache[*Session](256, time.Hour),
		grid:      NewWeightGridService(),
		stability: NewStabilityService(),
		volume:    NewVolumeService(),
		centroids: NewMassCentroidProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSessionStore replaces the backing session store.
func WithSessionStore(store cache.CacheWithMetrics[*Session]) SessionOption {
	return func(s *SessionService) { s.store = store }
}

// WithSessionTTL sizes the default session store.
func WithSessionTTL(capacity int, ttl time.Duration) SessionOption {
	return func(s *SessionService) {
		if capacity > 0 {
			s.store = NewTTLCache[*Session](capacity, ttl)
		}
	}
}

// WithWeightGrid injects the weight-distribution calculator.
func WithWeightGrid(c WeightGridCalculator) SessionOption {
	return func(s *SessionService) { s.grid = c }
}

// WithStability injects the stability calculator.
func WithStability(c StabilityCalculator) SessionOption {
	return func(s *SessionService) { s.stability = c }
}

// WithVolume injects the volume calculator.
func WithVolume(c VolumeCalculator) SessionOption {
	return func(s *SessionService) { s.volume = c }
}

// WithCentroidProvider injects the centroid collaborator.
func WithCentroidProvider(p CentroidProvider) SessionOption {
	return func(s *SessionService) { s.centroids = p }
}

// WithSnapshotHistory enables snapshot persistence through the given
// repository. Writes happen asynchronously and never block a mutation.
func WithSnapshotHistory(repo repository.SnapshotsRepositoryInterface) SessionOption {
	return func(s *SessionService) { s.history = repo }
}

// Create installs a parsed order as a new session.
func (s *SessionService) Create(order *model.Order) (*Session, error) {
	if order == nil || len(order.Pallets) == 0 {
		return nil, ErrPalletIndex
	}

	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		order:     order,
	}
	sess.snapshot = s.compute(nil, 0)
	s.store.Set(sess.ID, sess)
	metrics.SetActiveSessions(s.store.Metrics().Size)
	s.record(sess.ID, order.ID, 0, 0, sess.snapshot)
	return sess, nil
}

// Get returns the session with the given ID.
func (s *SessionService) Get(id string) (*Session, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Apply performs one placed-box-set mutation and recomputes the snapshot.
func (s *SessionService) Apply(id string, action MutationAction, step int, heightCm float64) (model.MetricsSnapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.MetricsSnapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	boxes := sess.activeBoxes()
	switch action {
	case ActionPlace:
		if sess.placed < len(boxes) {
			sess.placed++
		}
	case ActionRemove:
		if sess.placed > 0 {
			sess.placed--
		}
	case ActionSeek:
		if step < 0 || step > len(boxes) {
			return model.MetricsSnapshot{}, ErrInvalidStep
		}
		sess.placed = step
	case ActionReset:
		sess.placed = 0
	default:
		return model.MetricsSnapshot{}, ErrUnknownAction
	}

	sess.heightCm = heightCm
	sess.snapshot = s.compute(boxes[:sess.placed], sess.stackHeightCm())
	sess.UpdatedAt = time.Now()
	s.store.Set(sess.ID, sess)
	s.record(sess.ID, sess.order.ID, sess.palletIdx, sess.placed, sess.snapshot)
	return sess.snapshot, nil
}

// SelectPallet switches the active pallet, resetting placement.
func (s *SessionService) SelectPallet(id string, palletIdx int) (model.MetricsSnapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.MetricsSnapshot{}, err
	}
	if palletIdx < 0 || palletIdx >= len(sess.order.Pallets) {
		return model.MetricsSnapshot{}, ErrPalletIndex
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.palletIdx = palletIdx
	sess.placed = 0
	sess.heightCm = 0
	sess.snapshot = s.compute(nil, 0)
	sess.UpdatedAt = time.Now()
	s.store.Set(sess.ID, sess)
	s.record(sess.ID, sess.order.ID, palletIdx, 0, sess.snapshot)
	return sess.snapshot, nil
}

// Analyze runs the calculators once with no session state.
func (s *SessionService) Analyze(boxes []model.Box, heightCm float64) model.MetricsSnapshot {
	return s.compute(boxes, heightCm)
}

// History returns the persisted snapshot history of a session.
func (s *SessionService) History(ctx context.Context, id string, limit int) ([]repository.SnapshotDocument, error) {
	if s.history == nil {
		return nil, nil
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.history.ListBySession(ctx, id, limit)
}

// record persists one snapshot asynchronously when history is enabled.
func (s *SessionService) record(sessionID string, orderID, palletIdx, placed int, snapshot model.MetricsSnapshot) {
	if s.history == nil {
		return
	}
	doc := &repository.SnapshotDocument{
		SessionID:   sessionID,
		OrderID:     orderID,
		PalletIndex: palletIdx,
		PlacedBoxes: placed,
		Snapshot:    snapshot,
		CreatedAt:   time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.history.Create(ctx, doc)
	}()
}

// Stop releases the session store.
func (s *SessionService) Stop() {
	s.store.Stop()
}

// compute invokes the three calculators synchronously against the current
// box list. None of them mutate the list; calling compute twice with an
// unchanged list yields identical results.
func (s *SessionService) compute(boxes []model.Box, heightCm float64) model.MetricsSnapshot {
	centroid := s.centroids.Centroid(boxes)

	start := time.Now()
	grid := s.grid.Compute(boxes)
	metrics.RecordCalculation("weight_grid", time.Since(start))

	start = time.Now()
	stability := s.stability.Compute(boxes, centroid)
	metrics.RecordCalculation("stability", time.Since(start))

	start = time.Now()
	volume := s.volume.Compute(boxes, heightCm)
	metrics.RecordCalculation("volume", time.Since(start))

	return model.MetricsSnapshot{
		ComputedAt: time.Now(),
		BoxCount:   len(boxes),
		HeightCm:   heightCm,
		Grid:       grid,
		Stability:  stability,
		Volume:     volume,
		Centroid:   centroid,
	}
}

// activeBoxes returns the active pallet's boxes in placement order.
func (sess *Session) activeBoxes() []model.Box {
	pallet := sess.order.Pallets[sess.palletIdx]
	boxes := make([]model.Box, len(pallet.Boxes))
	copy(boxes, pallet.Boxes)
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Sequence < boxes[j].Sequence })
	return boxes
}

// stackHeightCm returns the externally supplied height when present,
// otherwise the height derived from the placed geometry.
func (sess *Session) stackHeightCm() float64 {
	if sess.heightCm > 0 {
		return sess.heightCm
	}
	var top float64
	for _, box := range sess.activeBoxes()[:sess.placed] {
		if t := box.Position.Y + box.Dimensions.Y/2; t > top {
			top = t
		}
	}
	return top * cmPerUnit
}
