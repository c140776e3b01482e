// Package dashboard wires selection controls to the dataset through an
// explicit table of update rules. Each rule declares the selection fields
// it reads and the UI target it writes; a change recomputes exactly the
// rules subscribed to the changed fields.
package dashboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/chart"
	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/couchcryptid/aqi-dashboard/internal/observability"
)

// Env is the immutable context every rule is evaluated against.
type Env struct {
	Data       *dataset.Dataset
	Figures    *chart.Builder
	Metrics    *observability.Metrics
	Nationwide bool
}

// Rule computes one UI target from a subset of the selection.
type Rule struct {
	Name   string
	Target string
	Inputs domain.FieldSet
	Eval   func(env Env, sel domain.Selection) (any, error)
}

// Output is the result of one rule evaluation.
type Output struct {
	Rule  string `json:"rule"`
	Value any    `json:"value,omitempty"`
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Outputs maps target ids to rule results.
type Outputs map[string]Output

// Errors returns the failed outputs keyed by target.
func (o Outputs) Errors() map[string]error {
	out := make(map[string]error)
	for target, v := range o {
		if v.Err != nil {
			out[target] = v.Err
		}
	}
	return out
}

// Graph is the subscription table of update rules.
type Graph struct {
	env     Env
	rules   []Rule
	targets map[string]struct{}
	logger  *slog.Logger
}

// NewGraph returns a graph over env with no rules registered.
func NewGraph(env Env, logger *slog.Logger) *Graph {
	return &Graph{
		env:     env,
		targets: make(map[string]struct{}),
		logger:  logger,
	}
}

// NewDefaultGraph returns a graph with the dashboard's rules registered.
func NewDefaultGraph(env Env, logger *slog.Logger) *Graph {
	g := NewGraph(env, logger)
	for _, r := range DefaultRules() {
		if err := g.Register(r); err != nil {
			panic(err) // default rule table is static
		}
	}
	return g
}

// Register appends a rule. Targets must be unique and a rule must read at
// least one field.
func (g *Graph) Register(r Rule) error {
	if r.Eval == nil {
		return fmt.Errorf("rule %q has no eval function", r.Name)
	}
	if r.Inputs == 0 {
		return fmt.Errorf("rule %q declares no inputs", r.Name)
	}
	if _, dup := g.targets[r.Target]; dup {
		return fmt.Errorf("target %q already has a rule", r.Target)
	}
	g.targets[r.Target] = struct{}{}
	g.rules = append(g.rules, r)
	return nil
}

// Env returns the evaluation context.
func (g *Graph) Env() Env { return g.env }

// Rules returns the registered rules in registration order.
func (g *Graph) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Subscribers returns the rules whose inputs intersect changed.
func (g *Graph) Subscribers(changed domain.FieldSet) []Rule {
	var out []Rule
	for _, r := range g.rules {
		if r.Inputs.Intersects(changed) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate recomputes every rule subscribed to changed, in registration
// order. A failing rule is reported in its output and does not stop the
// others.
func (g *Graph) Evaluate(sel domain.Selection, changed domain.FieldSet) Outputs {
	out := make(Outputs)
	for _, r := range g.Subscribers(changed) {
		out[r.Target] = g.run(r, sel)
	}
	return out
}

// EvaluateTarget runs the single rule writing target.
func (g *Graph) EvaluateTarget(target string, sel domain.Selection) (Output, bool) {
	for _, r := range g.rules {
		if r.Target == target {
			return g.run(r, sel), true
		}
	}
	return Output{}, false
}

// EvaluateAll recomputes every rule, as for an initial render.
func (g *Graph) EvaluateAll(sel domain.Selection) Outputs {
	return g.Evaluate(sel, domain.AllFields())
}

func (g *Graph) run(r Rule, sel domain.Selection) (o Output) {
	start := time.Now()
	o.Rule = r.Name

	defer func() {
		if p := recover(); p != nil {
			o.Value = nil
			o.Err = fmt.Errorf("rule %s panicked: %v", r.Name, p)
		}
		outcome := "success"
		if o.Err != nil {
			outcome = "error"
			o.Error = o.Err.Error()
			g.logger.Warn("rule evaluation failed", "rule", r.Name, "target", r.Target, "error", o.Err)
		}
		if m := g.env.Metrics; m != nil {
			m.RuleEvaluations.WithLabelValues(r.Name, outcome).Inc()
			m.RuleDuration.WithLabelValues(r.Name).Observe(time.Since(start).Seconds())
		}
	}()

	o.Value, o.Err = r.Eval(g.env, sel)
	g.logger.Debug("rule evaluated", "rule", r.Name, "target", r.Target, "duration", time.Since(start))
	return o
}
