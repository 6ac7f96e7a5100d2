package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func decodePipeline(t *testing.T, src string) []StageSpec {
	t.Helper()
	var spec struct {
		Pipeline []StageSpec `yaml:"pipeline"`
	}
	if err := yaml.Unmarshal([]byte(src), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return spec.Pipeline
}

func TestStageSpecScalarForm(t *testing.T) {
	pipeline := decodePipeline(t, "pipeline: [frontmatter, markdown]")

	if len(pipeline) != 2 {
		t.Fatalf("got %d entries", len(pipeline))
	}
	if pipeline[0].Name != "frontmatter" || pipeline[1].Name != "markdown" {
		t.Fatalf("names = %q, %q", pipeline[0].Name, pipeline[1].Name)
	}
	if pipeline[0].Malformed() != "" {
		t.Fatalf("unexpected malformed: %s", pipeline[0].Malformed())
	}
}

func TestStageSpecMappingForm(t *testing.T) {
	pipeline := decodePipeline(t, `
pipeline:
  - name: write
    options:
      to: html
      ext: .html
`)

	if len(pipeline) != 1 {
		t.Fatalf("got %d entries", len(pipeline))
	}
	entry := pipeline[0]
	if entry.Name != "write" {
		t.Fatalf("name = %q", entry.Name)
	}
	if entry.Options["to"] != "html" || entry.Options["ext"] != ".html" {
		t.Fatalf("options = %v", entry.Options)
	}
}

// A structurally wrong entry must survive loading as a malformed spec so the
// build can warn and skip it instead of refusing the whole configuration.
func TestStageSpecWrongKindIsKeptMalformed(t *testing.T) {
	pipeline := decodePipeline(t, `
pipeline:
  - frontmatter
  - [not, a, stage]
  - markdown
`)

	if len(pipeline) != 3 {
		t.Fatalf("got %d entries", len(pipeline))
	}
	if pipeline[1].Malformed() == "" {
		t.Fatal("sequence entry should be marked malformed")
	}
	if pipeline[0].Malformed() != "" || pipeline[2].Malformed() != "" {
		t.Fatal("neighbours must stay well-formed")
	}
}

func TestStageSpecMarshalCompactForm(t *testing.T) {
	data, err := yaml.Marshal([]StageSpec{
		{Name: "markdown"},
		{Name: "write", Options: map[string]any{"to": "html"}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := "- markdown\n- name: write\n  options:\n    to: html\n"
	if string(data) != want {
		t.Fatalf("marshal output:\n%s\nwant:\n%s", data, want)
	}
}

func TestFolderSpecRecursive(t *testing.T) {
	if (FolderSpec{Traversal: TraversalFlat}).Recursive() {
		t.Error("flat must not be recursive")
	}
	if !(FolderSpec{Traversal: TraversalRecursive}).Recursive() {
		t.Error("recursive must be recursive")
	}
}
