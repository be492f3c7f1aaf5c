// Package config loads and validates the SimulationConfig shape defined
// in spec.md §6: environment geometry, agent population, the behavior
// tree, food sources, queen/brood energy parameters, and pheromone field
// parameters. Encoding is YAML, loaded with gopkg.in/yaml.v3 — the same
// library the teacher uses for its own settings files.
//
// Validation aggregates every problem it finds into one error rather
// than failing on the first, per §6's "unresolved names aggregate into
// a single error message listing them" requirement.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/antsim/antsim/internal/behavior"
	"github.com/antsim/antsim/internal/registry"
	"github.com/antsim/antsim/internal/triggers"
	"gopkg.in/yaml.v3"
)

// EnvironmentConfig describes the grid and its special cells.
type EnvironmentConfig struct {
	Width          int        `yaml:"width"`
	Height         int        `yaml:"height"`
	EntryPositions [][2]int   `yaml:"entry_positions"`
	NestType       string     `yaml:"nest_type"`
	Walls          [][2]int   `yaml:"walls"`
}

// AgentPopulationConfig describes the initial population and their
// per-kind blackboard defaults.
type AgentPopulationConfig struct {
	QueenCount   int            `yaml:"queen_count"`
	WorkerCount  int            `yaml:"worker_count"`
	QueenConfig  map[string]any `yaml:"queen_config"`
	WorkerConfig map[string]any `yaml:"worker_config"`
}

// FoodSourceConfig places one food deposit on the grid at load time.
type FoodSourceConfig struct {
	Position [2]int `yaml:"position"`
	Amount   int    `yaml:"amount"`
}

// QueenEnergyConfig mirrors the queen_energy config block of §6.
type QueenEnergyConfig struct {
	EnergyConversionRate    int64 `yaml:"energy_conversion_rate"`
	EnergyLossRate          int64 `yaml:"energy_loss_rate"`
	StomachDepletionRate    int64 `yaml:"stomach_depletion_rate"`
	HungerPheromoneStrength int64 `yaml:"hunger_pheromone_strength"`
}

// BroodConfig mirrors the brood config block of §6.
type BroodConfig struct {
	InitialEnergy    int64 `yaml:"initial_energy"`
	MaxEnergy        int64 `yaml:"max_energy"`
	InitialStomach   int64 `yaml:"initial_stomach"`
	StomachCapacity  int64 `yaml:"stomach_capacity"`
	MaturationTime   int64 `yaml:"maturation_time"`
	ConversionRate   int64 `yaml:"energy_conversion_rate"`
	LossRate         int64 `yaml:"energy_loss_rate"`
	HungerStrength   int64 `yaml:"hunger_pheromone_strength"`
}

// PheromoneConfig mirrors the pheromones config block of §6.
type PheromoneConfig struct {
	EvaporationRate   float64  `yaml:"evaporation_rate"`
	DiffusionAlpha    float64  `yaml:"diffusion_alpha"`
	Types             []string `yaml:"types"`
	AllowDynamicTypes bool     `yaml:"allow_dynamic_types"`
}

// ColonyConfig mirrors the colony config block of §6 (entry positions
// used by foraging/navigation plugins, distinct from the environment's
// own entry_positions which gate spawn placement).
type ColonyConfig struct {
	EntryPositions [][2]int `yaml:"entry_positions"`
}

// SimulationRunConfig mirrors the simulation config block of §6. The
// core does not consume tick_interval_ms itself (that belongs to a
// host's scheduling loop), but it is preserved on the struct so config
// files round-trip.
type SimulationRunConfig struct {
	MaxCycles     int `yaml:"max_cycles"`
	TickIntervalMs int `yaml:"tick_interval_ms"`
}

// SimulationConfig is the root shape the engine is configured from. Field
// names and nesting match spec.md §6 exactly; tasks is reserved and
// never read by the core.
type SimulationConfig struct {
	Environment  EnvironmentConfig     `yaml:"environment"`
	Agent        AgentPopulationConfig `yaml:"agent"`
	BehaviorTree BehaviorTreeConfig    `yaml:"behavior_tree"`
	Tasks        []map[string]any      `yaml:"tasks"`
	FoodSources  []FoodSourceConfig    `yaml:"food_sources"`
	QueenEnergy  QueenEnergyConfig     `yaml:"queen_energy"`
	Brood        BroodConfig           `yaml:"brood"`
	Pheromones   PheromoneConfig       `yaml:"pheromones"`
	Colony       ColonyConfig          `yaml:"colony"`
	Simulation   SimulationRunConfig   `yaml:"simulation"`
}

// BehaviorTreeConfig wraps the root BTNode, matching §6's
// `behavior_tree: { root: BTNode }` shape.
type BehaviorTreeConfig struct {
	Root behavior.NodeSpec `yaml:"root"`
}

// Load reads and parses a SimulationConfig from a YAML file. It does not
// validate against a plugin registry — call Validate for that once a
// Registry is available.
func Load(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidationError aggregates every problem found while validating a
// config against a plugin registry, rather than surfacing only the
// first, per §6.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %d validation problem(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks cfg's shape and resolves every step/trigger name its
// behavior tree references against reg. It also builds the tree once, to
// surface structural errors (composite nodes without children, step
// nodes without a step name) discovered in behavior.Build, folding them
// into the same aggregated error rather than a second error path.
func Validate(cfg *SimulationConfig, reg *registry.Registry) (behavior.Node, error) {
	var problems []string

	if cfg.Environment.Width <= 0 || cfg.Environment.Height <= 0 {
		problems = append(problems, fmt.Sprintf("environment dimensions must be positive, got %dx%d", cfg.Environment.Width, cfg.Environment.Height))
	}

	if err := triggers.ValidateLogic(cfg.BehaviorTree.Root.Logic); err != nil {
		problems = append(problems, err.Error())
	}
	validateLogicRecursive(cfg.BehaviorTree.Root, &problems)

	stepNames := behavior.CollectStepNames(cfg.BehaviorTree.Root)
	if unresolved := reg.UnresolvedStepNames(stepNames); len(unresolved) > 0 {
		problems = append(problems, fmt.Sprintf("unresolved step names: %s", strings.Join(unresolved, ", ")))
	}

	triggerNames := behavior.CollectTriggerNames(cfg.BehaviorTree.Root)
	if unresolved := reg.UnresolvedTriggerNames(triggerNames); len(unresolved) > 0 {
		problems = append(problems, fmt.Sprintf("unresolved trigger names: %s", strings.Join(unresolved, ", ")))
	}

	var root behavior.Node
	if len(problems) == 0 {
		built, err := behavior.Build(cfg.BehaviorTree.Root)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			root = built
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return root, nil
}

func validateLogicRecursive(spec behavior.NodeSpec, problems *[]string) {
	if strings.EqualFold(spec.Type, "condition") || strings.EqualFold(spec.Type, "cond") {
		if err := triggers.ValidateLogic(spec.Logic); err != nil {
			*problems = append(*problems, fmt.Sprintf("node %q: %s", spec.Name, err.Error()))
		}
	}
	for _, c := range spec.Children {
		validateLogicRecursive(c, problems)
	}
}
