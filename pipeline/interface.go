// Package pipeline holds the data model for pipelines of processes: what a
// process is, what module it requires, and the ordered parameters it is
// invoked with. Pipelines themselves carry no behavior — the Job Runner
// (package jobs) walks them.
package pipeline

import "github.com/ZuInnoTe/ZuStDPipe/modules"

// ProcessModuleRequirements names the module a process needs and which
// backend loads it.
type ProcessModuleRequirements struct {
	Name string            `yaml:"name"`
	Type modules.ModuleType `yaml:"type"`
}

// ProcessDefinition is a single invocation of a module with an ordered
// parameter sequence. Parameters are kept as a sequence of single-entry
// maps (rather than one map) because YAML map key order is not guaranteed,
// and modules may be order-sensitive.
type ProcessDefinition struct {
	Module     ProcessModuleRequirements `yaml:"module"`
	Parameters []map[string]string       `yaml:"parameters"`
}

// Stage is one entry of a pipeline: a process name used only for logging,
// mapped to its definition.
type Stage map[string]ProcessDefinition

// Definition is an ordered sequence of stages. Stages execute in sequence.
// A Stage is a Go map, so the declaration order of its entries is not kept:
// when one stage holds several entries, the order they run in is not
// defined.
type Definition struct {
	Process []Stage `yaml:"process"`
}

// OrderedParameters flattens a process's parameter sequence into an ordered
// key/value list, preserving declaration order across every single-entry
// map in the sequence.
func (p ProcessDefinition) OrderedParameters() []KeyValue {
	out := make([]KeyValue, 0, len(p.Parameters))
	for _, entry := range p.Parameters {
		for k, v := range entry {
			out = append(out, KeyValue{Key: k, Value: v})
		}
	}
	return out
}

// KeyValue is one ordered parameter entry.
type KeyValue struct {
	Key   string
	Value string
}
