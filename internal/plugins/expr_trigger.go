package plugins

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/blackboard"
	"github.com/antsim/antsim/internal/registry"
)

// exprEnv is the evaluation environment a compiled expression sees: the
// agent's blackboard, flattened to plain Go values, plus any trigger
// params passed alongside.
type exprEnv struct {
	BB     map[string]any
	Params map[string]any
}

// exprCache is a thread-safe LRU of compiled expr programs, keyed by
// source text, so a Condition node that gates on the same expression
// every tick doesn't recompile it. Grounded on smilemakc-mbflow's
// backend/pkg/engine.ConditionCache — same LRU-over-compiled-program
// shape, narrowed to the one env type this trigger needs.
type exprCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type exprCacheEntry struct {
	key     string
	program *vm.Program
}

func newExprCache(capacity int) *exprCache {
	if capacity <= 0 {
		capacity = 64
	}
	return &exprCache{capacity: capacity, entries: make(map[string]*list.Element), order: list.New()}
}

func (c *exprCache) compile(source string) (*vm.Program, error) {
	c.mu.Lock()
	if el, ok := c.entries[source]; ok {
		c.order.MoveToFront(el)
		program := el.Value.(*exprCacheEntry).program
		c.mu.Unlock()
		return program, nil
	}
	c.mu.Unlock()

	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("plugins: compiling expression %q: %w", source, err)
	}

	c.mu.Lock()
	el := c.order.PushFront(&exprCacheEntry{key: source, program: program})
	c.entries[source] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*exprCacheEntry).key)
		}
	}
	c.mu.Unlock()
	return program, nil
}

// ExprTrigger evaluates a boolean expr-lang expression against a
// flattened view of the blackboard, e.g. "BB.energy < BB.max_energy * 0.5" or
// "BB.social_stomach > 0 && Params.min_food != nil". The expression
// source is supplied per evaluation via the "expr" param — this lets one
// registered trigger ("expr") back any number of distinct Condition
// nodes, each carrying its own expression string in its params.
//
// Grounded on the DAGExecutor.evaluateEdgeCondition pattern in
// smilemakc-mbflow (compile-and-cache, then expr.Run against a small env
// map) adapted from edge conditions to BT trigger gates.
type ExprTrigger struct {
	cache *exprCache
}

// NewExprTrigger creates an ExprTrigger with its own compiled-program
// cache.
func NewExprTrigger() *ExprTrigger {
	return &ExprTrigger{cache: newExprCache(64)}
}

// Evaluate implements registry.Trigger.
func (t *ExprTrigger) Evaluate(bb *blackboard.Blackboard, params map[string]bbvalue.Value) (bool, error) {
	exprParam, ok := params["expr"]
	if !ok {
		return false, fmt.Errorf("plugins: expr trigger requires an 'expr' param")
	}
	source, ok := exprParam.AsString()
	if !ok {
		return false, fmt.Errorf("plugins: expr trigger's 'expr' param must be a string")
	}

	program, err := t.cache.compile(source)
	if err != nil {
		return false, err
	}

	env := exprEnv{BB: snapshotToAny(bb), Params: paramsToAny(params)}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("plugins: evaluating expression %q: %w", source, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("plugins: expression %q did not evaluate to a bool, got %T", source, result)
	}
	return b, nil
}

func snapshotToAny(bb *blackboard.Blackboard) map[string]any {
	return bb.Snapshot()
}

func paramsToAny(params map[string]bbvalue.Value) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v.ToAny()
	}
	return out
}

// registerExprTrigger wires the "expr" trigger name into reg.
func registerExprTrigger(reg *registry.Registry) error {
	return reg.RegisterTrigger("expr", "plugins.expr_trigger", NewExprTrigger())
}
