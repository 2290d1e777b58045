package operation

import (
	"context"
	"fmt"
	"go/ast"
	"go/types"
	"io"
	"log/slog"

	"stubgen/internal/analyze"
	"stubgen/internal/buffer"
	"stubgen/internal/diagnostic"
	"stubgen/internal/edit"
	"stubgen/internal/format"
	"stubgen/internal/gen"
	"stubgen/internal/plan"
	"stubgen/internal/rewrite"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFormatter replaces the default GoFormatter.
func WithFormatter(f format.Formatter) Option {
	return func(e *Engine) {
		e.formatter = f
	}
}

// Engine runs operations against the documents of a registry.
type Engine struct {
	registry  *buffer.Registry
	provider  analyze.Provider
	formatter format.Formatter
	logger    *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(registry *buffer.Registry, provider analyze.Provider, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// synthesizer produces the stubs of one operation.
type synthesizer func(ctx context.Context, s *session) (cancelled bool, err error)

// session is the state of one request between analysis and rewrite.
type session struct {
	req       Request
	resolver  *plan.Resolver
	context   *plan.Context
	generator *gen.Generator
	diags     *diagnostic.Diagnostics
	stubs     []*gen.Stub
}

func (e *Engine) load(ctx context.Context, path string, diags *diagnostic.Diagnostics) (string, *analyze.Unit, error) {
	text, err := e.registry.Snapshot(ctx, path)
	if err != nil {
		return "", nil, fmt.Errorf("snapshot: %w", err)
	}

	unit, err := e.provider.Load(ctx, path, []byte(text))
	if err != nil {
		return "", nil, fmt.Errorf("analysing %s: %w", path, err)
	}

	for _, terr := range unit.TypeErrors {
		e.logger.DebugContext(ctx, "type error", "path", path, "error", terr)
	}

	// Methods declared in a skipped sibling are unknown to the analysis.
	for _, serr := range unit.SiblingErrors {
		e.logger.WarnContext(ctx, "sibling skipped", "path", path, "error", serr)
		diags.AddWarning(diagnostic.CodeSiblingSkipped, serr.Error(), "", "")
	}

	return text, unit, nil
}

func (e *Engine) run(ctx context.Context, req Request, synthesize synthesizer) (*Result, error) {
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}

	text, unit, err := e.load(ctx, req.Path, &res.Diagnostics)
	if err != nil {
		return nil, err
	}

	resolver := plan.NewResolver(unit, &res.Diagnostics)

	c := resolver.Context(req.Target)
	if c == nil {
		e.logger.InfoContext(ctx, "nothing to do", "path", req.Path, "target", req.Target.Label())
		return res, nil
	}

	overlay := rewrite.NewOverlay(unit,
		rewrite.NewImportRewrite(unit, req.Settings.ImportOrder, req.Settings.ImportThreshold))

	s := &session{
		req:       req,
		resolver:  resolver,
		context:   c,
		generator: gen.NewGenerator(unit, req.Settings, overlay),
		diags:     &res.Diagnostics,
	}

	res.Cancelled, err = synthesize(ctx, s)
	if err != nil {
		return nil, formatError(req.Path, err)
	}

	if len(s.stubs) == 0 {
		e.logger.InfoContext(ctx, "no members to create", "path", req.Path, "target", req.Target.Label())
		return res, nil
	}

	anchor := findAnchor(unit, c, req.Anchor)
	if req.Anchor != "" && anchor == nil {
		res.Diagnostics.AddWarning(diagnostic.CodeAnchorNotFound,
			fmt.Sprintf("anchor %s not found, appending to the end of the file", req.Anchor), c.TypeName(), "")
	}

	for _, stub := range s.stubs {
		if anchor != nil {
			overlay.InsertBefore(stub.Decl, anchor)
		} else {
			overlay.InsertLast(stub.Decl)
		}
	}

	delim := req.Settings.Delimiter(unit.LineDelimiter())
	adapter := format.Adapter{
		Formatter:     e.formatterFor(req.Settings),
		IndentLevel:   req.Settings.IndentLevel,
		LineDelimiter: delim,
	}

	rewritten, err := overlay.Rewrite(adapter.Render, delim, req.Settings.IndentUnit)
	if err != nil {
		return nil, formatError(req.Path, err)
	}

	res.Text = rewritten.Text
	res.Edit = edit.Diff(text, rewritten.Text)

	for _, stub := range s.stubs {
		res.Created = append(res.Created, stub.Key)
		res.Members = append(res.Members, member(stub, rewritten.Markers))
	}

	e.logger.InfoContext(ctx, "members synthesized",
		"path", req.Path, "target", req.Target.Label(), "count", len(s.stubs), "cancelled", res.Cancelled)

	if !req.Apply {
		return res, nil
	}

	return res, e.apply(ctx, req, text, res)
}

func (e *Engine) formatterFor(settings gen.Settings) format.Formatter {
	if e.formatter != nil {
		return e.formatter
	}

	return format.GoFormatter{IndentUnit: settings.IndentUnit}
}

// apply checks the document out, replays the edit and saves it.
func (e *Engine) apply(ctx context.Context, req Request, snapshot string, res *Result) error {
	h, err := e.registry.Acquire(ctx, req.Path)
	if err != nil {
		return applyError(req.Path, err)
	}
	defer h.Release()

	doc := h.Document()
	if doc.Text() != snapshot {
		return applyError(req.Path, ErrStale)
	}

	if err := doc.Apply(res.Edit); err != nil {
		return applyError(req.Path, err)
	}

	res.Applied = true

	if !req.Save {
		return nil
	}

	if err := h.Commit(ctx); err != nil {
		return applyError(req.Path, err)
	}

	res.Saved = true

	e.logger.DebugContext(ctx, "document saved", "path", req.Path, "primary", doc.Primary())

	return nil
}

func member(stub *gen.Stub, markers []*rewrite.Marker) Member {
	m := Member{Key: stub.Key, Name: stub.Name}
	m.Span, _ = rewrite.TrackedSpan(markers, stub)

	if stub.Body != nil {
		m.Body, _ = rewrite.PlaceholderSpan(markers, gen.BodyData{Stub: stub})
	}

	return m
}

// findAnchor returns the method name of c's type, or else the top-level
// function name, declared in the unit's file.
func findAnchor(unit *analyze.Unit, c *plan.Context, name string) ast.Decl {
	if name == "" {
		return nil
	}

	var fallback ast.Decl

	for _, decl := range unit.File.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != name {
			continue
		}

		if fn.Recv == nil {
			if fallback == nil {
				fallback = fn
			}

			continue
		}

		if len(fn.Recv.List) > 0 && analyze.ReceiverBase(fn.Recv.List[0].Type) == c.TypeName() {
			return fn
		}
	}

	return fallback
}

// Candidates lists the delegate and missing-method bindings of target.
func (e *Engine) Candidates(ctx context.Context, path string, target plan.Target) (*Candidates, error) {
	out := &Candidates{}

	_, unit, err := e.load(ctx, path, &out.Diagnostics)
	if err != nil {
		return nil, err
	}
	resolver := plan.NewResolver(unit, &out.Diagnostics)

	c := resolver.Context(target)
	if c == nil {
		return out, nil
	}

	for _, d := range resolver.Delegates(c) {
		out.Delegates = append(out.Delegates, Candidate{Key: d.Key(), Via: d.Field.Name()})
	}

	for _, m := range resolver.Missing(c) {
		out.Missing = append(out.Missing, Candidate{
			Key: m.Key(),
			Via: types.TypeString(m.Interface, byName(unit.Pkg)),
		})
	}

	return out, nil
}

// byName qualifies packages other than self by their name.
func byName(self *types.Package) types.Qualifier {
	return func(p *types.Package) string {
		if p == self {
			return ""
		}

		return p.Name()
	}
}
