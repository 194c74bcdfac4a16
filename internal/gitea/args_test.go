package gitea

import (
	"testing"
)

func TestCoerce_Integers(t *testing.T) {
	// MCP arguments arrive JSON-decoded, so numbers are float64.
	if v, err := coerce(TypeInteger, float64(42)); err != nil || v.(int64) != 42 {
		t.Errorf("whole float64 should coerce, got %v, %v", v, err)
	}
	if _, err := coerce(TypeInteger, 42.5); err == nil {
		t.Error("non-integral number should be rejected")
	}
	if _, err := coerce(TypeInteger, "42"); err == nil {
		t.Error("numeric string should be rejected, types are declared")
	}
	if v, err := coerce(TypeInteger, 7); err != nil || v.(int64) != 7 {
		t.Errorf("plain int should coerce, got %v, %v", v, err)
	}
}

func TestCoerce_IntegerList(t *testing.T) {
	v, err := coerce(TypeIntegerList, []interface{}{float64(1), float64(2)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := v.([]int64)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected [1 2], got %v", got)
	}

	if _, err := coerce(TypeIntegerList, []interface{}{float64(1), "two"}); err == nil {
		t.Error("mixed list should be rejected")
	}
	if _, err := coerce(TypeIntegerList, "1,2"); err == nil {
		t.Error("string should be rejected for integer list")
	}
}

func TestCoerce_StringList(t *testing.T) {
	v, err := coerce(TypeStringList, []interface{}{"bug", "docs"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := v.([]string)
	if len(got) != 2 || got[0] != "bug" {
		t.Errorf("Expected [bug docs], got %v", got)
	}

	if _, err := coerce(TypeStringList, []interface{}{"bug", float64(3)}); err == nil {
		t.Error("mixed list should be rejected")
	}
}

func TestValidateArgs_RequiredPresence(t *testing.T) {
	r := NewRegistry()
	ep, _ := r.Resolve("create_issue")

	_, failure := validateArgs(ep, map[string]interface{}{
		"owner": "acme", "repo": "widgets", "title": "crash on start",
		// body missing
	})
	if failure == nil {
		t.Fatal("Expected failure for missing required argument")
	}
	if failure.Kind != KindInvalidArgument {
		t.Errorf("Expected %q, got %q", KindInvalidArgument, failure.Kind)
	}
}

func TestValidateArgs_RejectsUndeclared(t *testing.T) {
	r := NewRegistry()
	ep, _ := r.Resolve("get_repository")

	_, failure := validateArgs(ep, map[string]interface{}{
		"owner": "acme", "repo": "widgets", "brnach": "main",
	})
	if failure == nil || failure.Kind != KindInvalidArgument {
		t.Errorf("Expected invalid_argument for undeclared name, got %v", failure)
	}
}

func TestValidateArgs_NilValueTreatedAsAbsent(t *testing.T) {
	r := NewRegistry()
	ep, _ := r.Resolve("get_repository")

	_, failure := validateArgs(ep, map[string]interface{}{
		"owner": "acme", "repo": nil,
	})
	if failure == nil || failure.Kind != KindInvalidArgument {
		t.Errorf("Expected invalid_argument for nil required value, got %v", failure)
	}
}
