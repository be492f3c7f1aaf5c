package behavior

import (
	"fmt"
	"strings"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/triggers"
	"gopkg.in/yaml.v3"
)

// TriggerRef names a trigger plugin plus its optional per-reference
// parameters — the Go mirror of spec §6's `TriggerRef = { name: string,
// params?: map }`. It also accepts a bare YAML scalar as shorthand for a
// param-less reference, matching `triggers: [string|TriggerRef]`.
type TriggerRef struct {
	Name   string                    `yaml:"name"`
	Params map[string]bbvalue.Value `yaml:"params"`
}

// UnmarshalYAML implements yaml.Unmarshaler, accepting either a bare
// scalar ("is_hungry") or a mapping ({name: expr, params: {...}}).
func (t *TriggerRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Name = node.Value
		t.Params = nil
		return nil
	}
	type plain TriggerRef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TriggerRef(p)
	return nil
}

// NodeSpec is the declarative shape a behavior tree node is configured
// from — the Go mirror of the YAML "BTNode" shape the simulation config
// accepts. Grounded on antsim/behavior/bt.py's TreeBuilder.build, which
// reads the equivalent dict shape.
type NodeSpec struct {
	Type     string                    `yaml:"type"`
	Name     string                    `yaml:"name"`
	Children []NodeSpec                `yaml:"children"`
	Triggers []TriggerRef              `yaml:"triggers"`
	Logic    string                    `yaml:"logic"`
	Step     string                    `yaml:"step"`
	Params   map[string]bbvalue.Value  `yaml:"params"`
}

// Build recursively constructs a Node tree from spec. It validates node
// shape as it goes (step nodes must name a step, condition nodes must
// list at least one trigger, composite nodes must name at least one
// child) rather than deferring errors to tick time.
func Build(spec NodeSpec) (Node, error) {
	ntype := strings.ToLower(spec.Type)
	name := spec.Name
	if name == "" {
		name = ntype
	}
	switch ntype {
	case "sequence", "seq":
		children, err := buildChildren(spec)
		if err != nil {
			return nil, err
		}
		return NewSequence(name, children), nil
	case "selector", "sel":
		children, err := buildChildren(spec)
		if err != nil {
			return nil, err
		}
		return NewSelector(name, children), nil
	case "condition", "cond":
		if len(spec.Triggers) == 0 {
			return nil, fmt.Errorf("behavior: condition node %q missing 'triggers' field", name)
		}
		names, paramsByName := splitTriggerRefs(spec.Triggers)
		return NewCondition(name, names, triggers.ParseLogic(spec.Logic), paramsByName), nil
	case "step", "leaf":
		if spec.Step == "" {
			return nil, fmt.Errorf("behavior: step node %q missing 'step' field", name)
		}
		return NewStepLeaf(name, spec.Step, spec.Params), nil
	default:
		return nil, fmt.Errorf("behavior: unknown node type %q", spec.Type)
	}
}

// splitTriggerRefs separates a Condition's TriggerRef list into the
// plain name list the Evaluator's logic composition walks and the
// per-name params map EvaluateMany threads to each trigger call.
func splitTriggerRefs(refs []TriggerRef) ([]string, map[string]map[string]bbvalue.Value) {
	if len(refs) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(refs))
	paramsByName := make(map[string]map[string]bbvalue.Value, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
		if len(r.Params) > 0 {
			paramsByName[r.Name] = r.Params
		}
	}
	return names, paramsByName
}

func buildChildren(spec NodeSpec) ([]Node, error) {
	if len(spec.Children) == 0 {
		return nil, fmt.Errorf("behavior: composite node %q has no children", spec.Name)
	}
	out := make([]Node, 0, len(spec.Children))
	for i, c := range spec.Children {
		child, err := Build(c)
		if err != nil {
			return nil, fmt.Errorf("behavior: building child %d of %q: %w", i, spec.Name, err)
		}
		out = append(out, child)
	}
	return out, nil
}

// CollectStepNames walks spec and returns every step name it references,
// for config validation against the registered step table.
func CollectStepNames(spec NodeSpec) []string {
	var out []string
	collectStepNames(spec, &out)
	return out
}

func collectStepNames(spec NodeSpec, out *[]string) {
	if strings.EqualFold(spec.Type, "step") || strings.EqualFold(spec.Type, "leaf") {
		if spec.Step != "" {
			*out = append(*out, spec.Step)
		}
	}
	for _, c := range spec.Children {
		collectStepNames(c, out)
	}
}

// CollectTriggerNames walks spec and returns every trigger name it
// references, for config validation against the registered trigger
// table.
func CollectTriggerNames(spec NodeSpec) []string {
	var out []string
	collectTriggerNames(spec, &out)
	return out
}

func collectTriggerNames(spec NodeSpec, out *[]string) {
	if strings.EqualFold(spec.Type, "condition") || strings.EqualFold(spec.Type, "cond") {
		for _, r := range spec.Triggers {
			*out = append(*out, r.Name)
		}
	}
	for _, c := range spec.Children {
		collectTriggerNames(c, out)
	}
}
