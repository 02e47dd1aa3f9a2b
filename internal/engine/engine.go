package engine

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
	"git.home.luguber.info/inful/docpress/internal/emit"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/frontmatter"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/render"
	"git.home.luguber.info/inful/docpress/internal/timestamps"
)

// Engine owns the collaborators of the pipeline. It holds no per-run state;
// the BuildContext returned by Build carries the asset collection.
type Engine struct {
	cfg      *config.Config
	renderer render.Renderer
	registry *plugin.Registry
	resolver timestamps.Resolver
	recorder metrics.Recorder
	logger   *slog.Logger
	live     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer replaces the markdown renderer.
func WithRenderer(r render.Renderer) Option { return func(e *Engine) { e.renderer = r } }

// WithRegistry replaces the default plugin registry.
func WithRegistry(reg *plugin.Registry) Option { return func(e *Engine) { e.registry = reg } }

// WithResolver replaces the timestamp resolver selected by configuration.
func WithResolver(r timestamps.Resolver) Option { return func(e *Engine) { e.resolver = r } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(e *Engine) { e.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithLive selects live mode: destructive resets are suppressed and the
// reload client is injected.
func WithLive(live bool) Option { return func(e *Engine) { e.live = live } }

// New creates an Engine for cfg. Collaborators not supplied through options
// are built from the configuration.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.recorder == nil {
		e.recorder = metrics.NoopRecorder{}
	}
	if e.renderer == nil {
		e.renderer = render.NewMarkdown(cfg.Markdown)
	}
	if e.registry == nil {
		reg, err := DefaultRegistry(cfg)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "create plugin registry").Build()
		}
		e.registry = reg
	}
	if e.resolver == nil && cfg.Datetime.Use {
		r, err := timestamps.New(cfg.Datetime, cfg.EntryDir(), e.logger)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "select timestamp source").
				WithContext("source", string(cfg.Datetime.Source)).
				Fatal().
				Build()
		}
		e.resolver = r
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config { return e.cfg }

// Registry returns the plugin registry.
func (e *Engine) Registry() *plugin.Registry { return e.registry }

// Live reports whether the engine runs in live mode.
func (e *Engine) Live() bool { return e.live }

// Build performs one batch run and returns its build context. The context is
// returned even on failure so callers can inspect what was collected.
func (e *Engine) Build(ctx context.Context) (*plugin.BuildContext, error) {
	bc := plugin.NewBuildContext(e.cfg, e.logger, e.live)
	r := &run{bc: bc}
	start := time.Now()

	stages := NewPipeline().
		Add(StageDiscover, e.discover).
		Add(StageRender, e.renderAll).
		Add(StageApply, e.apply).
		Add(StagePreEmission, e.firePre).
		Add(StageEmit, e.emitTargets).
		Add(StagePostEmission, e.firePost).
		Build()

	err := e.runStages(ctx, r, stages)
	e.finish(metrics.ScopeFull, start, err)
	if err != nil {
		return bc, err
	}
	bc.Logger.Info("Build completed",
		logfields.Documents(len(r.documents)),
		logfields.Assets(bc.Assets.Len()),
		logfields.Output(e.cfg.OutputDir()),
		logfields.Since(start))
	return bc, nil
}

// FireFull re-runs preEmission, emitAll and postEmission over the whole
// collection of bc.
func (e *Engine) FireFull(ctx context.Context, bc *plugin.BuildContext) error {
	start := time.Now()
	stages := NewPipeline().
		Add(StagePreEmission, e.firePre).
		Add(StageEmit, e.emitTargets).
		Add(StagePostEmission, e.firePost).
		Build()
	err := e.runStages(ctx, &run{bc: bc}, stages)
	e.finish(metrics.ScopeFull, start, err)
	return err
}

// FireScoped re-runs preEmission, emitOne and postEmission for a alone.
// Aggregate extensions observe a non-full scope and do nothing.
func (e *Engine) FireScoped(ctx context.Context, bc *plugin.BuildContext, a *asset.Asset) error {
	restore := bc.Scope(a)
	defer restore()

	start := time.Now()
	stages := NewPipeline().
		Add(StagePreEmission, e.firePre).
		Add(StageEmit, func(_ context.Context, r *run) error {
			path, err := emit.EmitOne(e.cfg.OutputDir(), a)
			if err != nil {
				return err
			}
			r.emitted = append(r.emitted, path)
			e.recorder.AddAssetsEmitted(1)
			return nil
		}).
		Add(StagePostEmission, e.firePost).
		Build()
	err := e.runStages(ctx, &run{bc: bc}, stages)
	e.finish(metrics.ScopeScoped, start, err)
	return err
}

// RenderDocument loads and renders doc into a fresh asset: metadata is
// normalized, a title is defaulted and timestamps are attached when enabled.
func (e *Engine) RenderDocument(doc docs.Document) (*asset.Asset, error) {
	raw, err := doc.LoadContent()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read document").
			WithContext("path", doc.Path).
			Fatal().
			Build()
	}

	res, err := e.renderer.Render(raw)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", doc.Path)
		}
		return nil, errors.WrapError(err, errors.CategoryRender, "render document").
			WithContext("path", doc.Path).
			Build()
	}
	if res.Metadata == nil {
		res.Metadata = render.Metadata{}
	}
	render.DefaultTitle(res.Metadata, res.Heading, doc.Name)

	if e.cfg.Datetime.Use && e.resolver != nil {
		if err := timestamps.Annotate(res.Metadata, doc.Path, e.resolver, e.cfg.Datetime.Layout()); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve timestamps").
				WithContext("path", doc.Path).
				Fatal().
				Build()
		}
	}
	a := asset.FromDocument(doc, res)
	if fp, err := frontmatter.Fingerprint(raw); err == nil {
		a.Fingerprint = fp
	}
	return a, nil
}

// Fingerprint hashes the current content of the document at path without
// rendering it.
func (e *Engine) Fingerprint(path string) (string, error) {
	raw, err := docs.NewDocument(path).LoadContent()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "read document").
			WithContext("path", path).
			Fatal().
			Build()
	}
	fp, err := frontmatter.Fingerprint(raw)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "invalid front matter").
			WithContext("path", path).
			Build()
	}
	return fp, nil
}

// Invalidate drops cached timestamp information for path.
func (e *Engine) Invalidate(path string) {
	if inv, ok := e.resolver.(timestamps.Invalidator); ok {
		inv.Invalidate(path)
	}
}

func (e *Engine) finish(scope string, start time.Time, err error) {
	e.recorder.ObserveRunDuration(scope, time.Since(start))
	if err != nil {
		e.recorder.IncRunOutcome(metrics.ResultFailed)
		return
	}
	e.recorder.IncRunOutcome(metrics.ResultSuccess)
}

func (e *Engine) discover(_ context.Context, r *run) error {
	entry := e.cfg.EntryDir()
	documents, err := docs.Discover(entry)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "discover documents").
			WithContext("path", entry).
			Fatal().
			Build()
	}
	files, err := docs.CountFiles(entry)
	if err != nil {
		r.bc.Logger.Warn("Counting entry files failed", logfields.Path(entry), logfields.Error(err))
	}
	r.documents = documents
	r.bc.Logger.Info("Discovered documents",
		logfields.Path(entry),
		logfields.Documents(len(documents)),
		slog.Int("files", files))
	return nil
}

func (e *Engine) renderAll(_ context.Context, r *run) error {
	for _, doc := range r.documents {
		a, err := e.RenderDocument(doc)
		if err != nil {
			return err
		}
		r.bc.Assets.Append(a)
	}
	return nil
}

func (e *Engine) apply(ctx context.Context, r *run) error {
	return e.registry.ApplyAll(ctx, r.bc)
}

func (e *Engine) firePre(ctx context.Context, r *run) error {
	for _, a := range r.bc.Targets() {
		a.Reset()
	}
	return e.fire(ctx, r.bc, plugin.PreEmission)
}

func (e *Engine) firePost(ctx context.Context, r *run) error {
	return e.fire(ctx, r.bc, plugin.PostEmission)
}

func (e *Engine) fire(ctx context.Context, bc *plugin.BuildContext, point plugin.Point) error {
	start := time.Now()
	err := bc.Hooks.Fire(ctx, point, bc)
	e.recorder.ObserveHookDuration(string(point), time.Since(start))
	return err
}

func (e *Engine) emitTargets(_ context.Context, r *run) error {
	written, err := emit.EmitAll(e.cfg.OutputDir(), r.bc.Targets())
	r.emitted = append(r.emitted, written...)
	e.recorder.AddAssetsEmitted(len(written))
	return err
}
