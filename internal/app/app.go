// Package app implements the application layer for droidcfg.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"go.trai.ch/droidcfg/internal/adapters/telemetry" //nolint:depguard // Default tracer
	"go.trai.ch/droidcfg/internal/adapters/watcher"   //nolint:depguard // Debouncing lives with the watcher
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/droidcfg/internal/core/ports"
	"go.trai.ch/droidcfg/internal/engine/planner"
	"go.trai.ch/droidcfg/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of dependencies verified in parallel.
const DefaultConcurrency = 8

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolver     *resolver.Resolver
	planner      *planner.Planner
	store        ports.PlanStore
	repository   ports.ArtifactRepository
	signer       ports.PlanSigner
	watcher      ports.Watcher
	logger       ports.Logger
	tracer       ports.Tracer
	window       time.Duration
	getwd        func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	res *resolver.Resolver,
	pl *planner.Planner,
	store ports.PlanStore,
	repository ports.ArtifactRepository,
	signer ports.PlanSigner,
	w ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		resolver:     res,
		planner:      pl,
		store:        store,
		repository:   repository,
		signer:       signer,
		watcher:      w,
		logger:       log,
		tracer:       telemetry.NewNoOpTracer(),
		window:       watcher.DefaultDebounceWindow,
		getwd:        os.Getwd,
	}
}

// WithTracer sets the tracer used to record resolution phases.
func (a *App) WithTracer(t ports.Tracer) *App {
	a.tracer = t
	return a
}

// WithDebounceWindow sets the window used to coalesce config changes while watching.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.window = d
	return a
}

// Options selects the configuration file and build type an operation works on.
type Options struct {
	// ConfigPath is the explicit document path. When empty the document is
	// discovered from the working directory.
	ConfigPath string
	// BuildType is the build type to resolve. Empty selects release.
	BuildType string
}

// Resolution is the outcome of resolving a document.
type Resolution struct {
	// Root is the directory holding the document and the state directory.
	Root   string
	Config *domain.BuildConfig
	Plan   *domain.BuildPlan
}

// locate returns the document path for opts.
func (a *App) locate(opts Options) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	cwd, err := a.getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return a.configLoader.Discover(cwd)
}

// Validate loads and resolves the document without building a plan.
func (a *App) Validate(ctx context.Context, opts Options) (*domain.BuildConfig, error) {
	path, err := a.locate(opts)
	if err != nil {
		return nil, err
	}
	return a.resolveConfig(ctx, path, opts.BuildType)
}

// Resolve loads the document, resolves it and builds the plan.
func (a *App) Resolve(ctx context.Context, opts Options) (*Resolution, error) {
	path, err := a.locate(opts)
	if err != nil {
		return nil, err
	}
	return a.resolve(ctx, path, opts.BuildType)
}

// ResolveAndStore resolves the document and writes the plan to the state directory.
func (a *App) ResolveAndStore(ctx context.Context, opts Options) (*Resolution, error) {
	res, err := a.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := a.storePlan(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *App) resolve(ctx context.Context, path, buildType string) (*Resolution, error) {
	cfg, err := a.resolveConfig(ctx, path, buildType)
	if err != nil {
		return nil, err
	}

	_, span := a.tracer.Start(ctx, "plan")
	defer span.End()

	plan, err := a.planner.Plan(cfg)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("fingerprint", plan.Fingerprint)
	span.SetAttribute("packaging", len(plan.Packaging))

	return &Resolution{Root: filepath.Dir(path), Config: cfg, Plan: plan}, nil
}

func (a *App) resolveConfig(ctx context.Context, path, buildType string) (*domain.BuildConfig, error) {
	_, span := a.tracer.Start(ctx, "load")
	span.SetAttribute("path", path)
	doc, err := a.configLoader.Load(path)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.End()

	_, span = a.tracer.Start(ctx, "resolve")
	defer span.End()

	cfg, err := a.resolver.Resolve(doc, buildType)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			span.SetAttribute("violations", len(vErr.Violations))
		}
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("buildType", cfg.BuildType)
	return cfg, nil
}

func (a *App) storePlan(ctx context.Context, res *Resolution) error {
	_, span := a.tracer.Start(ctx, "store")
	defer span.End()

	existed, err := a.store.Put(res.Root, res.Plan)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttribute("unchanged", existed)

	if existed {
		a.logger.Info(fmt.Sprintf("plan %s unchanged", res.Plan.Fingerprint))
	} else {
		a.logger.Info(fmt.Sprintf("plan %s written to %s", res.Plan.Fingerprint,
			domain.DefaultCurrentPlanPath(res.Root)))
	}
	return nil
}

// VerifyOptions configures Verify.
type VerifyOptions struct {
	Options
	// Concurrency bounds the number of parallel repository lookups.
	Concurrency int
}

// Verify checks every dependency against the configured repositories. Reports
// are returned in declaration order, including those of dependencies whose
// lookup failed. A version unknown to every repository fails with
// ErrUnresolvableDependency after all lookups finish.
func (a *App) Verify(ctx context.Context, opts VerifyOptions) ([]domain.DependencyReport, error) {
	cfg, err := a.Validate(ctx, opts.Options)
	if err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	reports := make([]domain.DependencyReport, len(cfg.Dependencies))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, dep := range cfg.Dependencies {
		g.Go(func() error {
			spanCtx, span := a.tracer.Start(ctx, "verify")
			defer span.End()
			span.SetAttribute("coordinate", dep.Coordinate.String())

			report, err := a.repository.Check(spanCtx, cfg.Repositories, dep.Coordinate)
			if err != nil {
				span.RecordError(err)
				reports[i] = domain.DependencyReport{Coordinate: dep.Coordinate, Err: err}
				return nil
			}
			span.SetAttribute("found", report.Found)
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	var (
		errs    []error
		missing []string
	)
	for _, r := range reports {
		switch {
		case r.Err != nil:
			errs = append(errs, zerr.With(r.Err, "coordinate", r.Coordinate.String()))
		case !r.Found:
			missing = append(missing, r.Coordinate.String())
		}
	}
	if len(missing) > 0 {
		errs = append(errs, zerr.With(domain.ErrUnresolvableDependency, "dependencies", strings.Join(missing, ", ")))
	}
	return reports, errors.Join(errs...)
}

// SignOptions configures Sign.
type SignOptions struct {
	Options
	KeyPath    string
	Passphrase []byte
}

// Sign writes a detached signature next to the current stored plan and returns its path.
func (a *App) Sign(_ context.Context, opts SignOptions) (string, error) {
	planPath, err := a.currentPlanPath(opts.Options)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(planPath) //nolint:gosec // Path is derived from the document location
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var sig bytes.Buffer
	if err := a.signer.Sign(bytes.NewReader(data), opts.KeyPath, opts.Passphrase, &sig); err != nil {
		return "", err
	}

	sigPath := planPath + domain.SignatureExt
	if err := renameio.WriteFile(sigPath, sig.Bytes(), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSignatureReadFailed.Error()), "path", sigPath)
	}
	return sigPath, nil
}

// CheckSignatureOptions configures CheckSignature.
type CheckSignatureOptions struct {
	Options
	KeyringPath string
}

// CheckSignature verifies the current stored plan against its detached signature
// and returns the signer identity.
func (a *App) CheckSignature(_ context.Context, opts CheckSignatureOptions) (string, error) {
	planPath, err := a.currentPlanPath(opts.Options)
	if err != nil {
		return "", err
	}

	plan, err := os.Open(planPath) //nolint:gosec // Path is derived from the document location
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	defer func() { _ = plan.Close() }()

	sigPath := planPath + domain.SignatureExt
	sig, err := os.Open(sigPath) //nolint:gosec // Path is derived from the document location
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSignatureReadFailed.Error()), "path", sigPath)
	}
	defer func() { _ = sig.Close() }()

	return a.signer.Check(plan, sig, opts.KeyringPath)
}

// currentPlanPath returns the path of the current stored plan.
func (a *App) currentPlanPath(opts Options) (string, error) {
	path, err := a.locate(opts)
	if err != nil {
		return "", err
	}
	root := filepath.Dir(path)

	plan, err := a.store.Current(root)
	if err != nil {
		return "", err
	}
	if plan == nil {
		return "", zerr.With(domain.ErrPlanNotFound, "root", root)
	}
	return domain.DefaultCurrentPlanPath(root), nil
}

// Watch resolves and stores the plan, then repeats whenever the document
// changes until ctx is cancelled. Failed resolutions are logged and the
// watch continues.
func (a *App) Watch(ctx context.Context, opts Options) error {
	path, err := a.locate(opts)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		res, err := a.resolve(ctx, path, opts.BuildType)
		if err == nil {
			err = a.storePlan(ctx, res)
		}
		if err != nil {
			a.logger.Error(err)
		}
	}

	if err := a.watcher.Start(ctx, path); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info("watching " + path)
	rebuild()

	debouncer := watcher.NewDebouncer(a.window, rebuild)
	defer debouncer.Stop()

	for event := range a.watcher.Events() {
		if event.Operation == ports.OpRemove {
			a.logger.Warn(path + " was removed, waiting for it to reappear")
			continue
		}
		debouncer.Trigger()
	}
	return nil
}

// Clean removes the state directory next to the document.
func (a *App) Clean(_ context.Context, opts Options) error {
	path, err := a.locate(opts)
	if err != nil {
		return err
	}

	state := domain.DefaultStatePath(filepath.Dir(path))
	a.logger.Info(fmt.Sprintf("removing %s...", state))
	if err := os.RemoveAll(state); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove state directory"), "path", state)
	}
	a.logger.Info(fmt.Sprintf("removed %s", state))
	return nil
}
