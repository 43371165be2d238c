package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sourcery/internal/metrics"
	"sourcery/internal/model"
	"sourcery/internal/pipeline"
	"sourcery/internal/resolver"
)

// sessionOptions is what every new pane starts with.
type sessionOptions struct {
	Tool   string
	Module string // Attached to the default pane only
	Sync   bool
	Rules  []model.SubstitutionRule
}

// newRegistry returns a registry whose panes share one resolver and are
// seeded with opts.Rules. The default pane is attached to opts.Module.
func newRegistry(opts sessionOptions, m *metrics.Metrics) *pipeline.Registry {
	res := resolver.New(opts.Tool)
	log := logrus.WithField("component", "main")

	reg := pipeline.NewRegistry(func(name string) *pipeline.Pane {
		p := pipeline.NewPane(name, res, pipeline.WithMetrics(m), pipeline.WithSync(opts.Sync))
		for _, r := range opts.Rules {
			if _, err := p.AddRule(r.Original, r.Local); err != nil {
				log.WithError(err).WithField("original", r.Original).Warn("skipping path substitution")
			}
		}
		return p
	})

	if opts.Module != "" {
		reg.Open(pipeline.DefaultPane).Attach(opts.Module)
	}
	return reg
}

// resolveAll looks up every offset once. Report and JSON output are not
// navigation, so the sync flag does not apply.
func resolveAll(p *pipeline.Pane, offsets []uint64) ([]model.Display, error) {
	displays := make([]model.Display, 0, len(offsets))
	for _, off := range offsets {
		d, err := p.Resolve(off)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving 0x%x", off)
		}
		displays = append(displays, d)
	}
	return displays, nil
}

// parseOffsets accepts hex ("0x1139") or decimal offsets.
func parseOffsets(args []string) ([]uint64, error) {
	offsets := make([]uint64, 0, len(args))
	for _, a := range args {
		off, err := strconv.ParseUint(a, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid offset %q", a)
		}
		offsets = append(offsets, off)
	}
	return offsets, nil
}

// parseSubs splits ORIGINAL=LOCAL at the first '='.
func parseSubs(args []string) ([]model.SubstitutionRule, error) {
	var rules []model.SubstitutionRule
	for _, s := range args {
		original, local, ok := strings.Cut(s, "=")
		if !ok {
			return nil, errors.Errorf("invalid substitution %q, want ORIGINAL=LOCAL", s)
		}
		rules = append(rules, model.SubstitutionRule{Original: original, Local: local})
	}
	return rules, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
