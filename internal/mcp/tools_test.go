package mcp

import (
	"testing"

	"github.com/datapilot-canada/gitea-mcp/internal/gitea"
)

func TestBuildTool_SchemaShape(t *testing.T) {
	registry := gitea.NewRegistry()
	ep, err := registry.Resolve("create_issue")
	if err != nil {
		t.Fatal(err)
	}

	tool := BuildTool(ep)
	if tool.Name != "create_issue" {
		t.Errorf("Expected tool name create_issue, got %q", tool.Name)
	}
	if tool.Description == "" {
		t.Error("Tool should carry a description")
	}

	props := tool.InputSchema.Properties
	for _, name := range []string{"owner", "repo", "title", "body", "milestone_id", "labels"} {
		if _, ok := props[name]; !ok {
			t.Errorf("Schema should declare %q, got %v", name, props)
		}
	}

	required := map[string]bool{}
	for _, name := range tool.InputSchema.Required {
		required[name] = true
	}
	for _, name := range []string{"owner", "repo", "title", "body"} {
		if !required[name] {
			t.Errorf("%q should be required, got %v", name, tool.InputSchema.Required)
		}
	}
	if required["milestone_id"] || required["labels"] {
		t.Errorf("Optional params must not be required, got %v", tool.InputSchema.Required)
	}
}

func TestBuildTool_TypeMapping(t *testing.T) {
	registry := gitea.NewRegistry()
	ep, err := registry.Resolve("search_repositories")
	if err != nil {
		t.Fatal(err)
	}

	tool := BuildTool(ep)
	props := tool.InputSchema.Properties

	typeOf := func(name string) string {
		prop, ok := props[name].(map[string]interface{})
		if !ok {
			t.Fatalf("Property %q missing or malformed: %v", name, props[name])
		}
		s, _ := prop["type"].(string)
		return s
	}

	if got := typeOf("q"); got != "string" {
		t.Errorf("q should be string, got %q", got)
	}
	if got := typeOf("limit"); got != "number" {
		t.Errorf("limit should be number, got %q", got)
	}
	if got := typeOf("topic"); got != "boolean" {
		t.Errorf("topic should be boolean, got %q", got)
	}
}

func TestBuildTool_EveryEndpointBuilds(t *testing.T) {
	for _, ep := range gitea.NewRegistry().Endpoints() {
		tool := BuildTool(ep)
		if tool.Name != ep.Name {
			t.Errorf("Tool name mismatch for %q", ep.Name)
		}
		if len(tool.InputSchema.Properties) != len(ep.Params) {
			t.Errorf("Endpoint %q: expected %d properties, got %d",
				ep.Name, len(ep.Params), len(tool.InputSchema.Properties))
		}
	}
}
