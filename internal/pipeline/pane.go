// Package pipeline turns navigation events into source displays.
package pipeline

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sourcery/internal/metrics"
	"sourcery/internal/model"
	"sourcery/internal/pathsub"
	"sourcery/internal/resolver"
)

// Resolver looks up the source location of an offset in a module.
type Resolver interface {
	Resolve(executable string, offset uint64) (model.Location, error)
}

var _ Resolver = (*resolver.Resolver)(nil)

// ErrDetached is returned by Resolve when no module is attached.
var ErrDetached = errors.New("no module attached")

// fileExists probes source paths; tests swap it out.
var fileExists = model.FileExists

// Pane is one synced source view: an attached module, its substitution
// rules, the sync flag and the last display.
//
// All methods take the pane's mutex, so navigation events from several
// front-ends queue behind each other. A navigation blocks for as long as
// the tool runs.
type Pane struct {
	mu       sync.Mutex
	name     string
	resolver Resolver
	rewriter *pathsub.Rewriter
	metrics  *metrics.Metrics
	logger   *logrus.Entry

	module  string
	sync    bool
	current model.Display
}

// Option configures a Pane.
type Option func(*Pane)

// WithMetrics records navigation outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pane) { p.metrics = m }
}

// WithSync sets the initial sync state. Panes start with sync enabled.
func WithSync(enabled bool) Option {
	return func(p *Pane) { p.sync = enabled }
}

// NewPane returns a detached pane with no substitution rules.
func NewPane(name string, r Resolver, opts ...Option) *Pane {
	p := &Pane{
		name:     name,
		resolver: r,
		rewriter: pathsub.New(),
		sync:     true,
		logger:   logrus.WithFields(logrus.Fields{"component": "pipeline", "pane": name}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pane) Name() string { return p.name }

// Attach sets the module whose offsets navigation events refer to.
func (p *Pane) Attach(module string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.module = module
	p.logger.WithField("module", module).Info("attached")
}

// Detach clears the module. Navigation is ignored until the next Attach.
func (p *Pane) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.module = ""
}

func (p *Pane) Module() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.module
}

func (p *Pane) SyncEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sync
}

func (p *Pane) SetSync(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sync = enabled
}

// ToggleSync flips the sync flag and returns the new state.
func (p *Pane) ToggleSync() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sync = !p.sync
	return p.sync
}

// AddRule adds, replaces or (with an empty local) removes a substitution.
func (p *Pane) AddRule(original, local string) (pathsub.RuleChange, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rewriter.AddRule(original, local)
}

// Rules lists substitutions in lookup order.
func (p *Pane) Rules() []model.SubstitutionRule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rewriter.Rules()
}

// Current returns the last display produced by Navigate.
func (p *Pane) Current() model.Display {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Navigate handles "the view moved to offset". With sync disabled or no
// module attached nothing runs, the previous display is returned
// unchanged and the second result is false.
func (p *Pane) Navigate(offset uint64) (model.Display, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.module == "" || !p.sync {
		return p.current, false
	}

	d := p.update(offset)
	p.current = d
	p.metrics.ObserveDisplay(d.Status)
	return d, true
}

// Resolve runs the pipeline for offset whatever the sync flag says. It
// serves one-shot lookups such as reports, which are not navigation.
func (p *Pane) Resolve(offset uint64) (model.Display, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.module == "" {
		return model.Display{}, ErrDetached
	}

	d := p.update(offset)
	p.current = d
	p.metrics.ObserveDisplay(d.Status)
	return d, nil
}

func (p *Pane) update(offset uint64) model.Display {
	d := model.Display{Module: p.module, Offset: offset}

	loc, err := p.resolver.Resolve(p.module, offset)
	if err != nil {
		d.Status = model.StatusError
		d.LineInfo = "ERROR: " + err.Error()
		d.Text = d.LineInfo
		return d
	}
	if loc.Unmapped {
		d.Status = model.StatusUnmapped
		d.LineInfo = fmt.Sprintf("No source mapping for address 0x%x", offset)
		d.Text = d.LineInfo
		return d
	}

	d.Function = loc.Function
	d.LineInfo = loc.RawLineSpec

	path := loc.File
	if !fileExists(path) {
		// The substituted path gets one existence check, it is never
		// substituted again.
		sub, ok := p.rewriter.Substitute(path)
		found := ok && fileExists(sub)
		p.metrics.ObserveSubstitution(found)

		if !found {
			d.Status = model.StatusNotFound
			d.File = loc.File
			d.Text = fmt.Sprintf("[!] Source file \"%s\" not found\n[*] Associated line info: \"%s\"",
				loc.File, loc.RawLineSpec)
			return d
		}
		path = sub
	}

	text, err := model.ReadSource(path)
	if err != nil {
		p.logger.WithError(err).WithField("file", path).Warn("could not read source")
		d.Status = model.StatusError
		d.File = path
		d.Text = "ERROR: " + err.Error()
		return d
	}

	d.Status = model.StatusSource
	d.File = path
	d.Text = text
	d.Cursor = loc.Line
	return d
}
