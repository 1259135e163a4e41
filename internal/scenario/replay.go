package scenario

import (
	"log/slog"

	"github.com/vango-dev/incdom/internal/errors"
	"github.com/vango-dev/incdom/pkg/dom"
	"github.com/vango-dev/incdom/pkg/idom"
)

// Result describes the outcome of one pass.
type Result struct {
	// Index is the zero-based pass number.
	Index int

	// Pass is the pass name.
	Pass string

	// Strategy is "inner" or "outer".
	Strategy string

	// Stats are the structural changes reported by the engine.
	Stats idom.Stats

	// Mutations are the host operations the pass performed.
	Mutations dom.Mutations

	// HTML is the compact inner HTML of the root after the pass.
	HTML string

	// Pretty is the indented outer HTML of the root, keys included.
	Pretty string
}

// Replayer applies the passes of a scenario one at a time to a fresh root.
// It is not safe for concurrent use.
type Replayer struct {
	scenario *Scenario
	engine   *idom.Engine
	doc      *dom.Document
	root     *dom.Node
	customs  map[string]*idom.Custom
	next     int
	last     idom.Stats

	engineOpts []idom.Option
	logger     *slog.Logger
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithEngineOptions passes extra options to the engine, such as observers.
func WithEngineOptions(opts ...idom.Option) Option {
	return func(r *Replayer) {
		r.engineOpts = append(r.engineOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Replayer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReplayer creates a Replayer positioned before the first pass.
func NewReplayer(s *Scenario, opts ...Option) *Replayer {
	r := &Replayer{
		scenario: s,
		customs:  make(map[string]*idom.Custom),
		logger:   slog.Default().With("component", "scenario"),
	}
	for _, opt := range opts {
		opt(r)
	}

	engineOpts := []idom.Option{
		idom.WithDebug(s.Debug),
		idom.WithLogger(r.logger),
		idom.WithObserver(r),
	}
	r.engine = idom.New(append(engineOpts, r.engineOpts...)...)
	r.Reset()
	return r
}

// Reset discards the host tree and rewinds to the first pass.
func (r *Replayer) Reset() {
	r.doc = dom.NewDocument()
	r.root = r.doc.NewElement("body")
	r.next = 0
}

// Scenario returns the scenario being replayed.
func (r *Replayer) Scenario() *Scenario { return r.scenario }

// Root returns the root element passes are applied to.
func (r *Replayer) Root() *dom.Node { return r.root }

// Document returns the host document.
func (r *Replayer) Document() *dom.Document { return r.doc }

// Next returns the index of the next pass.
func (r *Replayer) Next() int { return r.next }

// Done reports whether every pass has been applied.
func (r *Replayer) Done() bool { return r.next >= len(r.scenario.Passes) }

// Step applies the next pass. Usage assertion failures raised while the
// scenario runs in debug mode are returned as errors.
func (r *Replayer) Step() (res Result, err error) {
	if r.Done() {
		return Result{}, errors.New("E024").
			WithDetailf("All %d passes of %q have been applied.", len(r.scenario.Passes), r.scenario.Name)
	}
	idx := r.next
	pass := &r.scenario.Passes[idx]
	r.next++

	defer func() {
		if rec := recover(); rec != nil {
			coded, ok := rec.(*errors.Error)
			if !ok {
				panic(rec)
			}
			err = coded
		}
	}()

	r.doc.ResetMutations()
	var focus *dom.Node
	fn := func(e *idom.Engine, _ any) error {
		focus = r.declare(e, pass.Nodes)
		return nil
	}

	strategy := idom.Inner.Name
	if pass.Outer {
		strategy = idom.Outer.Name
		target := r.root.First()
		if target == nil {
			return Result{}, errors.New("E025").
				WithDetailf("Pass %q is an outer pass but the root has no children.", pass.Name)
		}
		if _, err := r.engine.PatchOuter(target, fn, nil); err != nil {
			return Result{}, err
		}
	} else {
		if _, err := r.engine.PatchInner(r.root, fn, nil); err != nil {
			return Result{}, err
		}
	}

	if focus != nil {
		r.doc.Focus(focus)
	}

	res = Result{
		Index:     idx,
		Pass:      pass.Name,
		Strategy:  strategy,
		Stats:     r.last,
		Mutations: r.doc.Mutations(),
		HTML:      r.root.InnerHTML(),
		Pretty:    r.root.Render(dom.RenderOptions{Pretty: true, ShowKeys: true}),
	}
	r.logger.Info("pass applied",
		slog.Int("pass", idx),
		slog.String("name", pass.Name),
		slog.String("strategy", strategy),
		slog.Int("created", res.Stats.Created),
		slog.Int("deleted", res.Stats.Deleted),
		slog.Int("moved", res.Stats.Moved),
	)
	return res, nil
}

// Replay applies every pass of s and returns one Result per pass.
func Replay(s *Scenario, opts ...Option) ([]Result, error) {
	r := NewReplayer(s, opts...)
	results := make([]Result, 0, len(s.Passes))
	for !r.Done() {
		res, err := r.Step()
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// declare issues the declarations for nodes and returns the element marked
// for focus, if any.
func (r *Replayer) declare(e *idom.Engine, nodes []Node) *dom.Node {
	var focus *dom.Node
	for i := range nodes {
		n := &nodes[i]
		if n.IsText() {
			e.Text().(*dom.Node).SetData(*n.Text)
			continue
		}

		el := e.Open(r.kind(n), idom.Key(n.Key)).(*dom.Node)
		applyAttrs(e, el, n.Attrs)
		if n.Focus {
			focus = el
		}
		if n.Skip {
			e.Skip()
		} else if f := r.declare(e, n.Children); f != nil {
			focus = f
		}
		e.Close()
	}
	return focus
}

func (r *Replayer) kind(n *Node) idom.Kind {
	if n.Custom == "" {
		return idom.ElementKind(n.Open)
	}
	c, ok := r.customs[n.Custom]
	if !ok {
		name := n.Custom
		instances := 0
		c = &idom.Custom{
			Name: name,
			New: func(node idom.Node) {
				instances++
				node.(*dom.Node).SetState(instances)
			},
		}
		r.customs[name] = c
	}
	return idom.CustomKind(c)
}

// applyAttrs makes el's attributes exactly attrs.
func applyAttrs(e *idom.Engine, el *dom.Node, attrs map[string]string) {
	e.BeginAttributes()
	defer e.EndAttributes()

	for _, name := range el.AttrNames() {
		if _, ok := attrs[name]; !ok {
			el.RemoveAttr(name)
		}
	}
	for name, value := range attrs {
		el.SetAttr(name, value)
	}
}

// PatchStarted implements idom.Observer.
func (r *Replayer) PatchStarted(idom.PatchInfo) {}

// PatchFinished implements idom.Observer. It keeps the stats of top-level
// patches for the pass result.
func (r *Replayer) PatchFinished(info idom.PatchInfo, stats idom.Stats, _ error) {
	if !info.Nested() {
		r.last = stats
	}
}
