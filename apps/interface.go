// Package apps parses and holds application documents: the declarative
// YAML description of modules, pipelines, and jobs a CLI or other caller
// drives the runtime with. This is a collaborator boundary per the
// specification — the core (modules/jobs/pipeline) never parses YAML
// itself, it only consumes the structs this package produces.
package apps

import (
	"github.com/ZuInnoTe/ZuStDPipe/jobs"
	"github.com/ZuInnoTe/ZuStDPipe/modules"
	"github.com/ZuInnoTe/ZuStDPipe/pipeline"
)

// General carries the application's identity and document version.
type General struct {
	Name                 string `yaml:"name"`
	AppDefinitionVersion uint32 `yaml:"app_definition_version"`
}

// Definition is one application document's fully decoded contents.
type Definition struct {
	General   General                        `yaml:"general"`
	Modules   modules.ModulesDefinition      `yaml:"modules"`
	Jobs      map[string]jobs.JobDefinition  `yaml:"jobs"`
	Pipelines map[string]pipeline.Definition `yaml:"pipelines"`
}
