package apps

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ZuInnoTe/ZuStDPipe/errs"
)

var topLevelFields = map[string]bool{
	"general":   true,
	"modules":   true,
	"jobs":      true,
	"pipelines": true,
}

// Load reads one application document from rdr and decodes it into a
// Definition. Unknown top-level keys and a missing `general` field both
// fail with an AppDefinitionError whose Display names the offending field,
// matching "Invalid App definition. Error in Yaml file: missing field
// `general`" for a document with no general section.
func Load(rdr io.Reader) (*Definition, *errs.AppDefinitionError) {
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, &errs.AppDefinitionError{Cause: err}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &errs.AppDefinitionError{Cause: err}
	}
	if len(root.Content) == 0 {
		return nil, &errs.AppDefinitionError{Cause: fmt.Errorf("empty document")}
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &errs.AppDefinitionError{Cause: fmt.Errorf("expected a mapping at the document root")}
	}

	fields := map[string]*yaml.Node{}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		fields[key] = doc.Content[i+1]
	}

	// A missing `general` section is reported before any unrecognized key,
	// matching serde_yaml's own precedence: it surfaces the first missing
	// required field it needs to build the struct, regardless of what else
	// is present in the document.
	generalNode, ok := fields["general"]
	if !ok {
		return nil, &errs.AppDefinitionError{Cause: fmt.Errorf("missing field `general`")}
	}
	for key := range fields {
		if !topLevelFields[key] {
			return nil, &errs.AppDefinitionError{Cause: fmt.Errorf("unknown field `%s`", key)}
		}
	}

	var def Definition
	if err := generalNode.Decode(&def.General); err != nil {
		return nil, &errs.AppDefinitionError{Cause: err}
	}

	if modulesNode, ok := fields["modules"]; ok && modulesNode.Kind != 0 {
		if err := modulesNode.Decode(&def.Modules); err != nil {
			return nil, &errs.AppDefinitionError{Cause: err}
		}
	}
	if jobsNode, ok := fields["jobs"]; ok && jobsNode.Kind != 0 {
		if err := jobsNode.Decode(&def.Jobs); err != nil {
			return nil, &errs.AppDefinitionError{Cause: err}
		}
	}
	if pipelinesNode, ok := fields["pipelines"]; ok && pipelinesNode.Kind != 0 {
		if err := pipelinesNode.Decode(&def.Pipelines); err != nil {
			return nil, &errs.AppDefinitionError{Cause: err}
		}
	}

	return &def, nil
}
