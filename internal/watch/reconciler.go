package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"git.home.luguber.info/inful/docpress/internal/asset"
	"git.home.luguber.info/inful/docpress/internal/docs"
	derrors "git.home.luguber.info/inful/docpress/internal/docs/errors"
	"git.home.luguber.info/inful/docpress/internal/emit"
	"git.home.luguber.info/inful/docpress/internal/engine"
	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/plugin"
	"git.home.luguber.info/inful/docpress/internal/plugin/static"
)

// Notifier is told after every successful reconciliation.
type Notifier interface {
	Broadcast(msg string)
}

// Action names the transition a handled event took.
type Action string

const (
	ActionIgnored    Action = "ignored"
	ActionUnchanged  Action = "unchanged"
	ActionChanged    Action = "changed"
	ActionCreated    Action = "created"
	ActionRemoved    Action = "removed"
	ActionDirCreated Action = "dir_created"
	ActionDirRemoved Action = "dir_removed"
	ActionStatic     Action = "static"
)

// Reconciler applies events to the asset collection of a live build context
// and re-fires the pipeline, scoped to one asset for edits and creations and
// over the whole collection for removals.
type Reconciler struct {
	engine   *engine.Engine
	bc       *plugin.BuildContext
	entry    string
	output   string
	static   string
	notifier Notifier
	recorder metrics.Recorder
	logger   *slog.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithNotifier sets the reload notifier.
func WithNotifier(n Notifier) ReconcilerOption { return func(r *Reconciler) { r.notifier = n } }

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) ReconcilerOption {
	return func(r *Reconciler) { r.recorder = rec }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ReconcilerOption { return func(r *Reconciler) { r.logger = l } }

// NewReconciler binds e to the build context produced by its initial run.
func NewReconciler(e *engine.Engine, bc *plugin.BuildContext, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		engine: e,
		bc:     bc,
		entry:  filepath.Clean(e.Config().EntryDir()),
		output: filepath.Clean(e.Config().OutputDir()),
	}
	if dir := e.Config().StaticDir(); dir != "" {
		r.static = filepath.Clean(dir)
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = bc.Logger
	}
	if r.recorder == nil {
		r.recorder = metrics.NoopRecorder{}
	}
	return r
}

// Process handles ev and logs a failure instead of returning it, so that a
// broken document never stops the watcher.
func (r *Reconciler) Process(ctx context.Context, ev Event) {
	if _, err := r.Handle(ctx, ev); err != nil {
		r.logger.Error("Reconciliation failed",
			logfields.Event(string(ev.Kind)),
			logfields.Path(ev.Path),
			logfields.Error(err))
	}
}

// Handle applies one event and reports the transition taken.
func (r *Reconciler) Handle(ctx context.Context, ev Event) (Action, error) {
	start := time.Now()
	action, err := r.handle(ctx, ev)

	outcome := metrics.ResultSuccess
	switch {
	case err != nil:
		outcome = metrics.ResultFailed
	case action == ActionIgnored:
		outcome = metrics.ResultIgnored
	case action == ActionUnchanged:
		outcome = metrics.ResultUnchanged
	}
	r.recorder.IncReconcileEvent(string(ev.Kind), outcome)

	if err != nil || action == ActionIgnored {
		return action, err
	}
	if action == ActionUnchanged {
		r.logger.Debug("Skipped unchanged document", logfields.Event(string(ev.Kind)), logfields.Path(ev.Path))
		return action, nil
	}
	r.logger.Info("Reconciled event",
		logfields.Event(string(ev.Kind)),
		logfields.Path(ev.Path),
		slog.String("action", string(action)),
		logfields.Since(start))
	if r.notifier != nil {
		r.notifier.Broadcast(strconv.FormatInt(time.Now().UnixNano(), 10))
	}
	return action, nil
}

func (r *Reconciler) handle(ctx context.Context, ev Event) (Action, error) {
	path, err := filepath.Abs(ev.Path)
	if err != nil {
		return r.ignore(ev, err)
	}
	if r.isStatic(path) {
		if shouldIgnoreEvent(path) || hasIgnoredComponent(r.static, path) {
			return r.ignore(ev, derrors.ErrNotDocument)
		}
		return ActionStatic, r.syncStatic(path)
	}
	if err := r.admit(path); err != nil {
		return r.ignore(ev, err)
	}

	info, statErr := os.Stat(path)
	exists := statErr == nil

	if exists && info.IsDir() {
		if ev.Kind != Renamed {
			return ActionIgnored, nil
		}
		return ActionDirCreated, r.dirCreated(ctx, path)
	}
	if !exists && ev.Kind == Renamed && r.bc.Assets.HasUnder(path) {
		return ActionDirRemoved, r.dirRemoved(ctx, path)
	}
	if !docs.IsDocument(path) {
		return r.ignore(ev, derrors.ErrNotDocument)
	}

	_, known := r.bc.Assets.FindBySource(path)
	switch {
	case ev.Kind == Changed && known && exists:
		return r.changed(ctx, path)
	case ev.Kind == Changed:
		return r.ignore(ev, derrors.ErrUnknownDocument)
	case !exists:
		return ActionRemoved, r.removed(ctx, path)
	case known:
		// Atomic saves surface as renamed on a path that is still present.
		return r.changed(ctx, path)
	default:
		return ActionCreated, r.created(ctx, path)
	}
}

// isStatic reports whether path belongs to the static subtree and not to the
// entry or output trees nested inside it.
func (r *Reconciler) isStatic(path string) bool {
	return r.static != "" && docs.Within(r.static, path) &&
		!docs.Within(r.entry, path) && !docs.Within(r.output, path)
}

// admit reports why path cannot carry a document event, or nil.
func (r *Reconciler) admit(path string) error {
	if !docs.Within(r.entry, path) || path == r.entry || docs.Within(r.output, path) {
		return derrors.ErrOutsideEntry
	}
	if shouldIgnoreEvent(path) || hasIgnoredComponent(r.entry, path) {
		return derrors.ErrNotDocument
	}
	return nil
}

func (r *Reconciler) ignore(ev Event, reason error) (Action, error) {
	r.logger.Debug("Ignored event",
		logfields.Event(string(ev.Kind)),
		logfields.Path(ev.Path),
		slog.String("reason", reason.Error()))
	return ActionIgnored, nil
}

// changed re-renders a known document, replaces its asset in place and
// re-fires for that asset alone. Content identical to what the asset was
// rendered from (a touch, or a save without edits) is skipped.
func (r *Reconciler) changed(ctx context.Context, path string) (Action, error) {
	prev, _ := r.bc.Assets.FindBySource(path)
	fp, err := r.engine.Fingerprint(path)
	if err != nil {
		return ActionChanged, err
	}
	if prev != nil && prev.Fingerprint != "" && prev.Fingerprint == fp {
		return ActionUnchanged, nil
	}

	r.engine.Invalidate(path)
	a, err := r.engine.RenderDocument(docs.NewDocument(path))
	if err != nil {
		return ActionChanged, err
	}
	if !r.bc.Assets.Replace(a) {
		return ActionChanged, errors.InternalError("asset disappeared during reconciliation").
			WithContext("path", path).
			Build()
	}
	if err := r.engine.FireScoped(ctx, r.bc, a); err != nil {
		// The output still holds the previous render; retry on the next save.
		a.Fingerprint = ""
		return ActionChanged, err
	}
	return ActionChanged, nil
}

// created renders a new document, appends it and re-fires for it alone.
func (r *Reconciler) created(ctx context.Context, path string) error {
	a, err := r.engine.RenderDocument(docs.NewDocument(path))
	if err != nil {
		return err
	}
	r.bc.Assets.Append(a)
	return r.engine.FireScoped(ctx, r.bc, a)
}

// removed drops the asset of a deleted document, if any, and re-fires over the
// whole collection so aggregate pages forget it.
func (r *Reconciler) removed(ctx context.Context, path string) error {
	r.engine.Invalidate(path)
	if a, ok := r.bc.Assets.FindBySource(path); ok {
		r.bc.Assets.Remove(path)
		if err := emit.Remove(r.output, a); err != nil {
			return err
		}
	}
	return r.engine.FireFull(ctx, r.bc)
}

// syncStatic mirrors a changed static path into the output. Pages are not
// re-fired; the reload broadcast picks up new stylesheets and images.
func (r *Reconciler) syncStatic(path string) error {
	if err := static.Sync(r.engine.Config(), path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "sync static asset").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return nil
}

// dirCreated treats every document below a new directory as a creation.
func (r *Reconciler) dirCreated(ctx context.Context, dir string) error {
	documents, err := docs.Discover(dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "discover new directory").
			WithContext("path", dir).
			Fatal().
			Build()
	}
	for _, doc := range documents {
		if _, known := r.bc.Assets.FindBySource(doc.Path); known {
			continue
		}
		if err := r.created(ctx, doc.Path); err != nil {
			return err
		}
	}
	return nil
}

// dirRemoved drops every asset below a deleted directory, then re-fires once.
func (r *Reconciler) dirRemoved(ctx context.Context, dir string) error {
	removed := r.bc.Assets.RemoveUnder(dir)
	for _, a := range removed {
		r.engine.Invalidate(a.Source.Path)
		if err := emit.Remove(r.output, a); err != nil {
			return err
		}
	}
	r.logger.Debug("Removed assets under directory", logfields.Path(dir), logfields.Assets(len(removed)))
	return r.engine.FireFull(ctx, r.bc)
}

// Assets exposes the reconciled collection.
func (r *Reconciler) Assets() *asset.Collection { return r.bc.Assets }
