package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/williamokano/backupgen/pkg/params"
)

// JobDefinition is one entry of the jobs document, in document order
type JobDefinition struct {
	Title      string
	Definition params.Definition
}

// LoadJobs reads and parses a jobs file
func LoadJobs(path string) ([]JobDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs checks the shape of a jobs document against JobsSchema and
// returns its jobs in the order they are written
func ParseJobs(data []byte) ([]JobDefinition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse jobs file: %w", err)
	}

	doc, err := documentValue(&root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jobs file: %w", err)
	}
	if err := ValidateJobs(doc); err != nil {
		return nil, err
	}

	jobs := jobsNode(&root)
	if jobs == nil {
		return nil, nil
	}

	defs := make([]JobDefinition, 0, len(jobs.Content)/2)
	for i := 0; i+1 < len(jobs.Content); i += 2 {
		title := jobs.Content[i].Value
		def, err := params.DefinitionFromNode(jobs.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", title, err)
		}
		defs = append(defs, JobDefinition{Title: title, Definition: def})
	}

	return defs, nil
}

// documentValue converts a parsed document into plain values for schema
// validation. Mapping keys are always read as strings.
func documentValue(root *yaml.Node) (interface{}, error) {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}
	return nodeValue(root.Content[0])
}

func nodeValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if _, dup := out[key.Value]; dup {
				return nil, fmt.Errorf("line %d: mapping key %q already defined", key.Line, key.Value)
			}
			val, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = val
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	default:
		var val interface{}
		if err := n.Decode(&val); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return val, nil
	}
}

func jobsNode(root *yaml.Node) *yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "jobs" && doc.Content[i+1].Kind == yaml.MappingNode {
			return doc.Content[i+1]
		}
	}
	return nil
}
