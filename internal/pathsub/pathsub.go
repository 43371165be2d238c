// Package pathsub rewrites build-time source paths to local ones.
package pathsub

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sourcery/internal/model"
)

var (
	// ErrBlankOriginal is returned when a rule has no original prefix.
	ErrBlankOriginal = errors.New("original path can't be blank")
	// ErrBlankSubstitute is returned when removing a rule that doesn't exist.
	ErrBlankSubstitute = errors.New("new substitute path can't be blank")
)

// RuleChange tells the caller what AddRule did.
type RuleChange int

const (
	RuleRejected RuleChange = iota
	RuleAdded
	RuleRemoved
)

func (c RuleChange) String() string {
	switch c {
	case RuleAdded:
		return "added"
	case RuleRemoved:
		return "removed"
	default:
		return "rejected"
	}
}

// Rewriter holds the substitution rules of one session.
// It is not safe for concurrent use; the owning pane serializes access.
type Rewriter struct {
	rules  map[string]string   // original prefix -> local prefix
	failed map[string]struct{} // missing paths already reported
	exists func(path string) bool
	logger *logrus.Entry
}

// New returns a Rewriter with no rules.
func New() *Rewriter {
	return &Rewriter{
		rules:  make(map[string]string),
		failed: make(map[string]struct{}),
		exists: model.FileExists,
		logger: logrus.WithField("component", "pathsub"),
	}
}

// AddRule inserts or overwrites the rule for original. An empty local
// removes the rule instead. Any successful insert clears the failure log so
// paths that failed before are reported again.
func (r *Rewriter) AddRule(original, local string) (RuleChange, error) {
	switch {
	case original == "":
		r.logger.Warn("Path substitution error: Original path can't be blank")
		return RuleRejected, ErrBlankOriginal

	case local == "":
		old, ok := r.rules[original]
		if !ok {
			r.logger.Warn("Path substitution error: New substitute path can't be blank")
			return RuleRejected, ErrBlankSubstitute
		}
		delete(r.rules, original)
		r.logger.Infof("Removed path substitution: %s -> %s", original, old)
		return RuleRemoved, nil
	}

	r.rules[original] = local
	r.logger.Infof("Added path substitution: %s -> %s", original, local)
	clear(r.failed)
	return RuleAdded, nil
}

// Rules returns the rules in the order Substitute tries them.
func (r *Rewriter) Rules() []model.SubstitutionRule {
	keys := r.sortedOriginals()
	rules := make([]model.SubstitutionRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, model.SubstitutionRule{Original: k, Local: r.rules[k]})
	}
	return rules
}

// Len returns the number of rules.
func (r *Rewriter) Len() int {
	return len(r.rules)
}

// sortedOriginals orders prefixes longest first, so the most specific
// rule wins. Equal lengths sort lexically to keep the order stable.
func (r *Rewriter) sortedOriginals() []string {
	keys := make([]string, 0, len(r.rules))
	for k := range r.rules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Candidates returns every rewritten path for missing, in the order they
// are tried. A rule applies when its original prefix occurs anywhere in
// missing, and every occurrence is replaced.
func (r *Rewriter) Candidates(missing string) []string {
	var candidates []string
	for _, original := range r.sortedOriginals() {
		if strings.Contains(missing, original) {
			candidates = append(candidates, strings.ReplaceAll(missing, original, r.rules[original]))
		}
	}
	return candidates
}

// Substitute returns the first candidate for missing that exists locally.
func (r *Rewriter) Substitute(missing string) (string, bool) {
	candidates := r.Candidates(missing)
	for _, candidate := range candidates {
		if r.exists(candidate) {
			return candidate, true
		}
	}

	// Only warn once per file, and only once the user has added rules
	if _, seen := r.failed[missing]; !seen {
		if len(r.rules) > 0 {
			r.logFailure(missing, candidates)
		}
		r.failed[missing] = struct{}{}
	}
	return "", false
}

func (r *Rewriter) logFailure(missing string, candidates []string) {
	var rules strings.Builder
	for _, rule := range r.Rules() {
		rules.WriteString("\n  " + rule.Original + " => " + rule.Local)
	}

	r.logger.WithField("path", missing).Warnf("Failed to find substitution for %s", missing)
	r.logger.Warnf("Current substitution paths: %s", rules.String())
	r.logger.Warnf("Matching patterns' failed substitute paths: %s", strings.Join(candidates, "\n"))
}
