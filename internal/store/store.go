// Package store is the in-process application state core: one mutable
// mirror per collection, written through to the persistence gateway,
// kept convergent across instances by the sync notifier.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/origenapp/origen-core/internal/gateway"
	"github.com/origenapp/origen-core/internal/localstate"
	"github.com/origenapp/origen-core/internal/origen"
	"github.com/origenapp/origen-core/internal/syncx"
	"golang.org/x/sync/errgroup"
)

type SaveStatus string

const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveError  SaveStatus = "error"
)

type Options struct {
	// DebounceWindow is the quiet period that coalesces settings edits
	// into one persisted write. Zero means the 800ms default.
	DebounceWindow time.Duration
	// SavedHold is how long the status shows "saved" before reverting to
	// idle. Zero means the 3s default.
	SavedHold time.Duration
}

const (
	defaultDebounceWindow = 800 * time.Millisecond
	defaultSavedHold      = 3 * time.Second
)

// Store owns the in-memory copies. They are disposable: Reload can always
// rebuild them from the gateway, which stays the sole source of truth.
type Store struct {
	gw       gateway.API
	notifier syncx.Notifier
	local    *localstate.File

	mu            sync.RWMutex
	products      []origen.Product
	movements     []origen.Movement
	baptisms      []origen.Baptism
	presentations []origen.Presentation
	loans         []origen.Loan
	events        []origen.Event
	settings      origen.Settings
	degraded      bool
	loading       bool
	user          *origen.User
	theme         string

	saveMu    sync.Mutex
	saveTimer *time.Timer
	holdTimer *time.Timer
	saveGen   int
	pending   origen.Settings
	status    SaveStatus
	closed    bool

	debounce time.Duration
	hold     time.Duration
}

// New builds a store and subscribes it to the notifier: every received
// signal triggers the same full reload used at startup. local may be nil
// when per-instance persistence is not wanted.
func New(gw gateway.API, notifier syncx.Notifier, local *localstate.File, opts Options) *Store {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = defaultDebounceWindow
	}
	if opts.SavedHold <= 0 {
		opts.SavedHold = defaultSavedHold
	}
	s := &Store{
		gw:       gw,
		notifier: notifier,
		local:    local,
		settings: origen.DefaultSettings(),
		loading:  true,
		status:   SaveIdle,
		theme:    localstate.ThemeLight,
		debounce: opts.DebounceWindow,
		hold:     opts.SavedHold,
	}
	if local != nil {
		cached := local.Load()
		s.user = cached.User
		if cached.Theme != "" {
			s.theme = cached.Theme
		}
	}
	notifier.Subscribe(func() { s.Reload(context.Background()) })
	return s
}

// Close stops the settings timers. The notifier handle is owned and
// closed by the caller that wired it.
func (s *Store) Close() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.closed = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	if s.holdTimer != nil {
		s.holdTimer.Stop()
	}
}

// Reload re-fetches every collection plus the settings record in parallel
// and swaps them in under a single lock, so readers never observe a torn
// refresh. Schema-missing failures set the persistent degraded flag;
// everything else is logged and swallowed to keep the app usable.
func (s *Store) Reload(ctx context.Context) {
	var (
		products      []origen.Product
		movements     []origen.Movement
		baptisms      []origen.Baptism
		presentations []origen.Presentation
		loans         []origen.Loan
		events        []origen.Event
		loaded        *origen.Settings
		errs          [7]error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { products, errs[0] = s.gw.Products(gctx); return nil })
	g.Go(func() error { movements, errs[1] = s.gw.Movements(gctx); return nil })
	g.Go(func() error { baptisms, errs[2] = s.gw.Baptisms(gctx); return nil })
	g.Go(func() error { presentations, errs[3] = s.gw.Presentations(gctx); return nil })
	g.Go(func() error { loans, errs[4] = s.gw.Loans(gctx); return nil })
	g.Go(func() error { events, errs[5] = s.gw.Events(gctx); return nil })
	g.Go(func() error { loaded, errs[6] = s.gw.LoadSettings(gctx); return nil })
	_ = g.Wait()

	degraded := false
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, gateway.ErrSchemaMissing) {
			degraded = true
		}
		slog.Warn("store: reload fetch failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = degraded
	s.loading = false
	if errs[0] == nil {
		s.products = products
	}
	if errs[1] == nil {
		s.movements = movements
	}
	if errs[2] == nil {
		s.baptisms = baptisms
	}
	if errs[3] == nil {
		s.presentations = presentations
	}
	if errs[4] == nil {
		s.loans = loans
	}
	if errs[5] == nil {
		s.events = events
	}
	if errs[6] == nil && loaded != nil {
		s.settings = origen.MergeSettings(*loaded)
	}
}

// --- snapshot accessors -------------------------------------------------

func (s *Store) Products() []origen.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]origen.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Movements() []origen.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]origen.Movement, len(s.movements))
	copy(out, s.movements)
	return out
}

func (s *Store) Baptisms() []origen.Baptism {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]origen.Baptism, len(s.baptisms))
	copy(out, s.baptisms)
	return out
}

func (s *Store) Presentations() []origen.Presentation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]origen.Presentation, len(s.presentations))
	copy(out, s.presentations)
	return out
}

func (s *Store) Loans() []origen.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]origen.Loan, len(s.loans))
	copy(out, s.loans)
	return out
}

func (s *Store) Events() []origen.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]origen.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Stock derives the current quantity for a product code from the live
// ledger on every call.
func (s *Store) Stock(code string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return origen.StockFor(code, s.movements)
}

// LowStockProducts applies the configured alert threshold to the ledger.
func (s *Store) LowStockProducts() []origen.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return origen.LowStock(s.products, s.movements, s.settings.InventoryAlertThreshold)
}

func (s *Store) Settings() origen.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Degraded reports whether a reload found the backing schema missing,
// i.e. the deployment has no provisioned database.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Loading is true until the first reload finishes.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
