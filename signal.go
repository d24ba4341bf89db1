package bauble

import "slices"

// maxEffectRuns bounds the number of effect executions in a single flush. An
// effect that keeps re-triggering itself hits this and panics.
const maxEffectRuns = 10000

// Graph is the batching context shared by a set of signals and effects. All
// methods must be called from the same goroutine.
type Graph struct {
	depth    int
	flushing bool
	pending  []*Effect
	running  *Effect // tracked effect currently executing, nil otherwise
}

// NewGraph creates an empty signal graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Batch runs fn with notifications deferred. When the outermost batch
// returns, every effect affected by writes inside it runs exactly once.
func (g *Graph) Batch(fn func()) {
	g.depth++
	func() {
		defer func() { g.depth-- }()
		fn()
	}()
	if g.depth == 0 {
		g.flush()
	}
}

// Batching reports whether a batch is open.
func (g *Graph) Batching() bool {
	return g.depth > 0
}

func (g *Graph) enqueue(e *Effect) {
	if e.queued || e.disposed {
		return
	}
	e.queued = true
	g.pending = append(g.pending, e)
}

// flush runs queued effects. Writes made by those effects are queued into the
// same flush rather than starting a nested one.
func (g *Graph) flush() {
	if g.flushing {
		return
	}
	g.flushing = true
	g.depth++
	defer func() {
		// Only non-empty when an effect panicked.
		for _, e := range g.pending {
			if e != nil {
				e.queued = false
			}
		}
		g.pending = g.pending[:0]
		g.depth--
		g.flushing = false
	}()

	runs := 0
	for i := 0; i < len(g.pending); i++ {
		e := g.pending[i]
		g.pending[i] = nil
		e.queued = false
		if e.disposed {
			continue
		}
		runs++
		if runs > maxEffectRuns {
			panic("bauble: effect cycle detected (an effect keeps invalidating itself)")
		}
		e.run()
	}
}

// --- Sources ---

// Source is anything an effect can depend on: a Signal or a Selector key.
type Source interface {
	subscribe(e *Effect)
	unsubscribe(e *Effect)
}

// subscribers is the dependent list embedded in every Source.
type subscribers struct {
	subs []*Effect
}

func (s *subscribers) subscribe(e *Effect) {
	if !slices.Contains(s.subs, e) {
		s.subs = append(s.subs, e)
	}
}

func (s *subscribers) unsubscribe(e *Effect) {
	if i := slices.Index(s.subs, e); i >= 0 {
		s.subs = slices.Delete(s.subs, i, i+1)
	}
}

func (s *subscribers) notify(g *Graph) {
	for _, e := range s.subs {
		g.enqueue(e)
	}
}

// --- Signal ---

// Signal is a reactive cell. Reads from inside a tracked effect register a
// dependency; writes notify dependents, deferred to the end of any open batch.
type Signal[T any] struct {
	subscribers
	g     *Graph
	value T
	equal func(a, b T) bool
}

// NewSignal creates a signal holding initial. Writing a value equal (==) to
// the current one is a no-op.
func NewSignal[T comparable](g *Graph, initial T) *Signal[T] {
	return NewSignalFunc(g, initial, func(a, b T) bool { return a == b })
}

// NewSignalFunc creates a signal that uses equal to skip redundant writes.
// A nil equal notifies on every write.
func NewSignalFunc[T any](g *Graph, initial T, equal func(a, b T) bool) *Signal[T] {
	return &Signal[T]{g: g, value: initial, equal: equal}
}

// Get returns the current value and, when called from a tracked effect,
// records the signal as one of its dependencies.
func (s *Signal[T]) Get() T {
	if e := s.g.running; e != nil {
		e.track(s)
	}
	return s.value
}

// Peek returns the current value without tracking.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set writes v and notifies dependents.
func (s *Signal[T]) Set(v T) {
	if s.equal != nil && s.equal(s.value, v) {
		return
	}
	s.value = v
	s.g.Batch(func() { s.notify(s.g) })
}

// Update writes fn applied to the current value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// --- Effect ---

// Effect is a callback re-run when one of its dependencies changes.
type Effect struct {
	g        *Graph
	fn       func()
	tracked  bool
	deps     []Source
	queued   bool
	disposed bool
}

// OnEffect registers fn to run whenever any of deps changes. The dependency
// list is fixed; reads inside fn are not tracked. fn runs once immediately.
func (g *Graph) OnEffect(fn func(), deps ...Source) *Effect {
	e := &Effect{g: g, fn: fn}
	for _, d := range deps {
		e.deps = append(e.deps, d)
		d.subscribe(e)
	}
	e.run()
	return e
}

// Effect registers fn as a tracked effect: it runs immediately, and again
// whenever a signal it read during its last run changes.
func (g *Graph) Effect(fn func()) *Effect {
	e := &Effect{g: g, fn: fn, tracked: true}
	e.run()
	return e
}

// Dispose detaches the effect from all of its dependencies.
func (e *Effect) Dispose() {
	e.clearDeps()
	e.disposed = true
}

func (e *Effect) track(d Source) {
	if !e.tracked || slices.Contains(e.deps, d) {
		return
	}
	e.deps = append(e.deps, d)
	d.subscribe(e)
}

func (e *Effect) clearDeps() {
	for _, d := range e.deps {
		d.unsubscribe(e)
	}
	e.deps = e.deps[:0]
}

func (e *Effect) run() {
	prev := e.g.running
	if e.tracked {
		e.clearDeps()
		e.g.running = e
	} else {
		e.g.running = nil
	}
	defer func() { e.g.running = prev }()
	e.fn()
}

// --- Selector ---

// selectorKey is the per-key dependency handed out by a Selector.
type selectorKey struct {
	subscribers
}

// Selector answers "is this choice selected" for radio-style controls. An
// effect that calls IsSelected(k) re-runs only when k becomes selected or
// stops being selected, not on every change of the source.
type Selector[T comparable] struct {
	g        *Graph
	source   *Signal[T]
	selected T
	keys     map[T]*selectorKey
	watch    *Effect
}

// NewSelector creates a Selector over source.
func NewSelector[T comparable](g *Graph, source *Signal[T]) *Selector[T] {
	sel := &Selector[T]{
		g:        g,
		source:   source,
		selected: source.Peek(),
		keys:     make(map[T]*selectorKey),
	}
	sel.watch = g.OnEffect(sel.sync, source)
	return sel
}

func (sel *Selector[T]) sync() {
	next := sel.source.Peek()
	if next == sel.selected {
		return
	}
	prev := sel.selected
	sel.selected = next
	if k, ok := sel.keys[prev]; ok {
		k.notify(sel.g)
	}
	if k, ok := sel.keys[next]; ok {
		k.notify(sel.g)
	}
}

// IsSelected reports whether key is the source's current value.
func (sel *Selector[T]) IsSelected(key T) bool {
	if e := sel.g.running; e != nil {
		k, ok := sel.keys[key]
		if !ok {
			k = &selectorKey{}
			sel.keys[key] = k
		}
		e.track(k)
	}
	return sel.source.Peek() == key
}

// Select writes key to the source signal.
func (sel *Selector[T]) Select(key T) {
	sel.source.Set(key)
}
