// ABOUTME: Per-field edit protocol over a local recipe snapshot
// ABOUTME: Drafts are committed with a partial update and merged only on success

package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/report"
)

var (
	// ErrSlotBusy is returned when another editor already holds the slot
	ErrSlotBusy = errors.New("another editor is already open")
	// ErrNotOpen is returned when an editor is not accepting input
	ErrNotOpen = errors.New("editor is not open")
	// ErrNoSession is returned when saving without a logged in session
	ErrNoSession = errors.New("not logged in")
)

// State is the lifecycle position of an editor
type State int

const (
	StateIdle State = iota
	StateOpen
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSaving:
		return "saving"
	default:
		return "idle"
	}
}

// Sessions supplies the API client and the forced logout
type Sessions interface {
	Client() *client.Client
	Clear() error
}

// Slot is the single exclusive "active editor" position. Orchestrators
// that share a slot can never have two editors open at once.
type Slot struct {
	mu     sync.Mutex
	holder string
}

// NewSlot creates an empty slot
func NewSlot() *Slot {
	return &Slot{}
}

// Active returns the name of the field being edited, if any
func (s *Slot) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holder, s.holder != ""
}

func (s *Slot) acquire(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holder != "" {
		return false
	}
	s.holder = name
	return true
}

func (s *Slot) release() {
	s.mu.Lock()
	s.holder = ""
	s.mu.Unlock()
}

// Orchestrator owns the local recipe snapshot for one recipe page
type Orchestrator struct {
	mu       sync.Mutex
	recipe   client.Recipe
	sessions Sessions
	notifier report.Notifier
	slot     *Slot
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithSlot shares a process-wide slot
func WithSlot(slot *Slot) Option {
	return func(o *Orchestrator) {
		o.slot = slot
	}
}

// New creates an orchestrator over a copy of recipe
func New(recipe client.Recipe, sessions Sessions, notifier report.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		recipe:   recipe.Clone(),
		sessions: sessions,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.slot == nil {
		o.slot = NewSlot()
	}
	return o
}

// Recipe returns a copy of the local snapshot
func (o *Orchestrator) Recipe() client.Recipe {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recipe.Clone()
}

// Replace installs a freshly fetched recipe. It is not fenced against
// in-flight saves; whichever lands last wins.
func (o *Orchestrator) Replace(recipe client.Recipe) {
	o.mu.Lock()
	o.recipe = recipe.Clone()
	o.mu.Unlock()
}

// Active returns the field currently being edited
func (o *Orchestrator) Active() (string, bool) {
	return o.slot.Active()
}

func (o *Orchestrator) recipeID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recipe.ID
}

func (o *Orchestrator) apply(fn func(*client.Recipe)) {
	o.mu.Lock()
	fn(&o.recipe)
	o.mu.Unlock()
}

func (o *Orchestrator) fail(err error, action string) {
	report.Failure(err, action, o.notifier, o.sessions)
}

// Field describes one editable part of a recipe
type Field[T any] struct {
	Name   string
	Action string // failure context, e.g. "saving recipe title"

	Get   func(client.Recipe) T
	Set   func(*client.Recipe, T)
	Patch func(T) client.UpdateRecipe

	// Validate may be nil
	Validate func(T) error
	// Clone deep copies values; nil means T is copied by assignment
	Clone func(T) T
}

func (f Field[T]) clone(v T) T {
	if f.Clone == nil {
		return v
	}
	return f.Clone(v)
}

// Editor is one open edit of a field. onClose receives the committed
// value, or nil on cancel or failure.
type Editor[T any] struct {
	o       *Orchestrator
	field   Field[T]
	onClose func(*T)

	mu    sync.Mutex
	state State
	draft T
}

// Open starts editing f with a draft copied from the snapshot
func Open[T any](o *Orchestrator, f Field[T], onClose func(*T)) (*Editor[T], error) {
	if !o.slot.acquire(f.Name) {
		return nil, ErrSlotBusy
	}
	o.mu.Lock()
	draft := f.clone(f.Get(o.recipe))
	o.mu.Unlock()

	return &Editor[T]{
		o:       o,
		field:   f,
		onClose: onClose,
		state:   StateOpen,
		draft:   draft,
	}, nil
}

// Name returns the field being edited
func (e *Editor[T]) Name() string {
	return e.field.Name
}

// State returns the current lifecycle state
func (e *Editor[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns a copy of the uncommitted value
func (e *Editor[T]) Draft() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.field.clone(e.draft)
}

// SetDraft replaces the draft
func (e *Editor[T]) SetDraft(v T) error {
	return e.update(func(d *T) error {
		*d = e.field.clone(v)
		return nil
	})
}

// Update edits the draft in place
func (e *Editor[T]) Update(fn func(*T)) error {
	return e.update(func(d *T) error {
		fn(d)
		return nil
	})
}

func (e *Editor[T]) update(fn func(*T) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateOpen {
		return ErrNotOpen
	}
	return fn(&e.draft)
}

// Validate checks the draft without saving
func (e *Editor[T]) Validate() error {
	if e.field.Validate == nil {
		return nil
	}
	return e.field.Validate(e.Draft())
}

// Cancel discards the draft without touching the network or the snapshot
func (e *Editor[T]) Cancel() error {
	e.mu.Lock()
	if e.state != StateOpen {
		e.mu.Unlock()
		return ErrNotOpen
	}
	e.state = StateIdle
	e.mu.Unlock()
	e.close(nil)
	return nil
}

// Save sends the draft as a partial update. A validation error leaves the
// editor open. Any other outcome closes it: on success the snapshot takes
// the draft, on failure the error is reported and the snapshot is unchanged.
func (e *Editor[T]) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateOpen {
		e.mu.Unlock()
		return ErrNotOpen
	}
	if e.field.Validate != nil {
		if err := e.field.Validate(e.draft); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	value := e.field.clone(e.draft)
	e.state = StateSaving
	e.mu.Unlock()

	err := e.commit(ctx, value)
	if err != nil {
		e.o.fail(err, e.field.Action)
		e.finish(nil)
		return err
	}

	e.o.apply(func(r *client.Recipe) {
		e.field.Set(r, e.field.clone(value))
	})
	e.finish(&value)
	return nil
}

func (e *Editor[T]) commit(ctx context.Context, value T) error {
	api := e.o.sessions.Client()
	if api == nil {
		return ErrNoSession
	}
	return api.PatchRecipe(ctx, e.o.recipeID(), e.field.Patch(value))
}

func (e *Editor[T]) finish(result *T) {
	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()
	e.close(result)
}

func (e *Editor[T]) close(result *T) {
	e.o.slot.release()
	if e.onClose != nil {
		e.onClose(result)
	}
}
