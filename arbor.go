package arbor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/arbor/internal/factline"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/reducer"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Engine is the high-level entry point for the Arbor library.
// It wraps the internal reducer and exposes the replay and query surface.
type Engine struct {
	mu      sync.Mutex // serializes writes; fact ordering stays the host's job
	reducer *reducer.Engine
	store   ports.ItemStore
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	orphans domain.OrphanPolicy
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a custom item store, bypassing the default in-memory one.
func WithStore(store ports.ItemStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithOrphanPolicy selects what happens to the subitems of deleted items.
// The default is domain.OrphanCascade.
func WithOrphanPolicy(policy domain.OrphanPolicy) Option {
	return func(e *Engine) {
		e.orphans = policy
	}
}

// New initializes a new Arbor Engine with an empty tree.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:  logging.NewNop(),
		orphans: domain.OrphanCascade,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	e.reducer = reducer.New(
		e.store,
		reducer.WithLogger(e.logger),
		reducer.WithLifecycleHooks(e.hooks),
		reducer.WithOrphanPolicy(e.orphans),
	)
	return e
}

// ParseLine classifies a raw fact line into a typed fact without applying it.
func (e *Engine) ParseLine(line string) (domain.Fact, error) {
	return factline.Parse(line)
}

// FormatFact renders a typed fact back into its line form, suitable for
// appending to a fact log.
func (e *Engine) FormatFact(fact domain.Fact) (string, error) {
	return factline.Format(fact)
}

// Apply applies a single typed fact. On error the store is unchanged.
func (e *Engine) Apply(ctx context.Context, fact domain.Fact) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reducer.Apply(ctx, fact)
}

// ApplyLine parses and applies a single fact line, returning the typed fact
// it decoded to.
func (e *Engine) ApplyLine(ctx context.Context, line string) (domain.Fact, error) {
	fact, err := factline.Parse(line)
	if err != nil {
		return domain.Fact{}, err
	}
	if err := e.Apply(ctx, fact); err != nil {
		return domain.Fact{}, err
	}
	return fact, nil
}

// Replay applies fact lines from r in order, halting on the first failure.
//
// Blank lines and lines starting with '#' are skipped as host conveniences;
// any other unrecognized line is a hard error. Returns the number of facts
// applied. On error, the error wraps the 1-based line number.
func (e *Engine) Replay(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	applied := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := e.ApplyLine(ctx, line); err != nil {
			return applied, fmt.Errorf("line %d: %w", lineNo, err)
		}
		applied++
		if err := ctx.Err(); err != nil {
			return applied, err
		}
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("read fact log: %w", err)
	}
	return applied, nil
}

// ReplayLog applies every line of a fact log in order, halting on the first
// failure, with the same skip rules as Replay.
func (e *Engine) ReplayLog(ctx context.Context, log ports.FactLog) (int, error) {
	lines, err := log.Lines(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fact log: %w", err)
	}
	return e.Replay(ctx, strings.NewReader(strings.Join(lines, "\n")))
}

// Exists reports whether a live item exists for id.
func (e *Engine) Exists(id string) bool {
	return e.store.Exists(id)
}

// Get returns a read-only copy of the item, or domain.ErrItemNotFound.
func (e *Engine) Get(id string) (domain.Item, error) {
	return e.store.Get(id)
}

// Roots returns the IDs of all outline roots in lexical order.
func (e *Engine) Roots() []string {
	return e.store.Roots()
}

// Items returns all live item IDs in lexical order.
func (e *Engine) Items() []string {
	return e.store.IDs()
}

// Len returns the number of live items.
func (e *Engine) Len() int {
	return e.store.Len()
}

// Tree returns the nested projection of the subtree rooted at id.
func (e *Engine) Tree(id string) (*domain.Tree, error) {
	item, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	node := &domain.Tree{ID: item.ID, Title: item.Title, Note: item.Note}
	for _, childID := range item.Subitems {
		child, err := e.Tree(childID)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// Verify walks the store and checks every structural invariant. A nil
// result means the tree is consistent.
func (e *Engine) Verify() error {
	return reducer.Verify(e.store)
}

// Store returns the underlying item store used by the engine.
func (e *Engine) Store() ports.ItemStore {
	return e.store
}
