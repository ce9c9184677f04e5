package posting

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/core/posting/internal/ledgerwrite"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory ledgerwrite.Store. Transactions are optimistic: writes are
// staged and checked against the committed state at commit, enforcing the same unique
// constraints as the database.
type memStore struct {
	mu      sync.Mutex
	runs    map[string]domain.PostingRun
	entries []domain.LedgerEntry

	// beforeCommit runs once, after fn succeeded and before the commit checks.
	beforeCommit func(s *memStore)
	// failInsertEntries makes InsertEntries fail with the given error.
	failInsertEntries error
	commits           int
}

func newMemStore() *memStore {
	return &memStore{runs: make(map[string]domain.PostingRun)}
}

var _ ledgerwrite.Store = (*memStore)(nil)

func (s *memStore) FindPostedRun(_ context.Context, ref domain.DocumentRef) (*domain.PostingRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.runs {
		if r.Ref() == ref && r.Status == domain.RunPosted {
			run := r
			return &run, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, ref)
}

func (s *memStore) FindEntriesByRun(_ context.Context, runID string) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesOf(runID), nil
}

func (s *memStore) entriesOf(runID string) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.PostingRunID != nil && *e.PostingRunID == runID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out
}

func (s *memStore) runsOf(ref domain.DocumentRef) []domain.PostingRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PostingRun
	for _, r := range s.runs {
		if r.Ref() == ref {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

func (s *memStore) allEntries() []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LedgerEntry(nil), s.entries...)
}

// seedRun commits a run directly, bypassing the engine.
func (s *memStore) seedRun(r domain.PostingRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.RunID] = r
}

type casCheck struct {
	runID   string
	status  domain.PostingRunStatus
	version int64
}

type memWriter struct {
	s       *memStore
	runs    map[string]domain.PostingRun
	entries []domain.LedgerEntry
	cas     []casCheck
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context, w ledgerwrite.Writer) error) error {
	w := &memWriter{s: s, runs: make(map[string]domain.PostingRun)}
	if err := fn(ctx, w); err != nil {
		return err
	}

	s.mu.Lock()
	hook := s.beforeCommit
	s.beforeCommit = nil
	s.mu.Unlock()
	if hook != nil {
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range w.cas {
		r := s.runs[c.runID]
		if r.Status != c.status || r.Version != c.version {
			return fmt.Errorf("%w: run %s changed concurrently", apperrors.ErrConflict, c.runID)
		}
	}

	merged := make(map[string]domain.PostingRun, len(s.runs)+len(w.runs))
	for id, r := range s.runs {
		merged[id] = r
	}
	for id, r := range w.runs {
		merged[id] = r
	}
	if err := checkRunConstraints(merged); err != nil {
		return err
	}

	lines := make(map[string]struct{})
	for _, e := range append(append([]domain.LedgerEntry(nil), s.entries...), w.entries...) {
		key := fmt.Sprintf("%s/%d", *e.PostingRunID, e.LineNumber)
		if _, dup := lines[key]; dup {
			return fmt.Errorf("%w: duplicate line %s", apperrors.ErrConflict, key)
		}
		lines[key] = struct{}{}
	}

	s.runs = merged
	s.entries = append(s.entries, w.entries...)
	s.commits++
	return nil
}

// checkRunConstraints mirrors UNIQUE(doc_type, doc_id, version) and the partial
// unique index on POSTED runs.
func checkRunConstraints(runs map[string]domain.PostingRun) error {
	versions := make(map[string]struct{})
	posted := make(map[domain.DocumentRef]struct{})
	for _, r := range runs {
		vk := fmt.Sprintf("%s#%d", r.Ref(), r.Version)
		if _, dup := versions[vk]; dup {
			return fmt.Errorf("%w: unique constraint posting_runs_doc_version_key", apperrors.ErrConflict)
		}
		versions[vk] = struct{}{}
		if r.Status == domain.RunPosted {
			if _, dup := posted[r.Ref()]; dup {
				return fmt.Errorf("%w: unique constraint posting_runs_one_posted_per_doc", apperrors.ErrConflict)
			}
			posted[r.Ref()] = struct{}{}
		}
	}
	return nil
}

// lookup returns the staged copy of a run, falling back to the committed one.
func (w *memWriter) lookup(runID string) (domain.PostingRun, bool, bool) {
	if r, ok := w.runs[runID]; ok {
		return r, true, true
	}
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	r, ok := w.s.runs[runID]
	return r, ok, false
}

func (w *memWriter) NextVersion(_ context.Context, ref domain.DocumentRef) (int64, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	var max int64
	for _, r := range w.s.runs {
		if r.Ref() == ref && r.Version > max {
			max = r.Version
		}
	}
	for _, r := range w.runs {
		if r.Ref() == ref && r.Version > max {
			max = r.Version
		}
	}
	return max + 1, nil
}

func (w *memWriter) InsertRun(_ context.Context, run domain.PostingRun) error {
	w.s.mu.Lock()
	for _, r := range w.s.runs {
		if r.Ref() == run.Ref() && r.Version == run.Version {
			w.s.mu.Unlock()
			return fmt.Errorf("%w: unique constraint posting_runs_doc_version_key", apperrors.ErrConflict)
		}
	}
	w.s.mu.Unlock()
	w.runs[run.RunID] = run
	return nil
}

func (w *memWriter) InsertEntries(_ context.Context, entries []domain.LedgerEntry) error {
	w.s.mu.Lock()
	fail := w.s.failInsertEntries
	w.s.mu.Unlock()
	if fail != nil {
		return fail
	}
	w.entries = append(w.entries, entries...)
	return nil
}

func (w *memWriter) TransitionRun(_ context.Context, t ledgerwrite.Transition) error {
	if !domain.CanTransition(t.From, t.To) {
		return fmt.Errorf("%w: invalid transition", apperrors.ErrValidation)
	}
	r, ok, staged := w.lookup(t.RunID)
	if !ok || r.Status != t.From || r.Version != t.Version {
		return fmt.Errorf("%w: run %s is no longer %s", apperrors.ErrConflict, t.RunID, t.From)
	}
	if !staged {
		w.cas = append(w.cas, casCheck{runID: r.RunID, status: r.Status, version: r.Version})
	}
	at := t.At
	r.Status = t.To
	switch t.To {
	case domain.RunPosted:
		r.PostedAt = &at
	case domain.RunVoid:
		r.VoidedAt = &at
		r.VoidReason = t.Reason
	}
	w.runs[r.RunID] = r
	return nil
}

func (w *memWriter) LinkReversal(_ context.Context, originalRunID, reversalRunID string) error {
	r, ok, _ := w.lookup(originalRunID)
	if !ok || r.Status != domain.RunVoid || r.ReversalRunID != nil {
		return fmt.Errorf("%w: run %s already has a reversal", apperrors.ErrConflict, originalRunID)
	}
	id := reversalRunID
	r.ReversalRunID = &id
	w.runs[r.RunID] = r
	return nil
}

type fakeConverter struct {
	base  string
	rates map[string]decimal.Decimal
}

func (c fakeConverter) BaseCurrency() string { return c.base }

func (c fakeConverter) ToBase(_ context.Context, amount decimal.Decimal, currency string, _ time.Time) (decimal.Decimal, error) {
	if currency == c.base {
		return amount, nil
	}
	rate, ok := c.rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrRateUnavailable, currency)
	}
	return amount.Mul(rate).Round(2), nil
}

type fakeCatalog map[string]domain.Account

func (c fakeCatalog) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account)
	for _, code := range codes {
		if a, ok := c[code]; ok {
			out[code] = a
		}
	}
	return out, nil
}

func (c fakeCatalog) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	a, ok := c[code]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + code)
	}
	return &a, nil
}

func (c fakeCatalog) ListAccounts(_ context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(c))
	for _, a := range c {
		out = append(out, a)
	}
	return out, nil
}

type lookupFunc func(ctx context.Context, docID string) (bool, error)

func (f lookupFunc) DocumentExists(ctx context.Context, docID string) (bool, error) {
	return f(ctx, docID)
}
