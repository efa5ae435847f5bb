package core

import "testing"

func TestNewSetBuilder(t *testing.T) {
	sb := NewSetBuilder()

	if sb == nil {
		t.Fatal("NewSetBuilder returned nil")
	}

	if sb.argIndex != 1 {
		t.Errorf("expected argIndex to be 1, got %d", sb.argIndex)
	}

	if !sb.Empty() {
		t.Error("expected new builder to be empty")
	}
}

func TestSetBuilder_Build_Empty(t *testing.T) {
	sb := NewSetBuilder()
	clause, args := sb.Build()

	if clause != "" {
		t.Errorf("expected empty clause for no assignments, got %q", clause)
	}

	if args != nil {
		t.Errorf("expected nil args for no assignments, got %v", args)
	}
}

func TestSetBuilder_Set_SingleField(t *testing.T) {
	sb := NewSetBuilder()
	sb.Set("name", "Ann")

	clause, args := sb.Build()

	expected := "SET name = $1"
	if clause != expected {
		t.Errorf("expected %q, got %q", expected, clause)
	}

	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}

	if args[0] != "Ann" {
		t.Errorf("expected arg 'Ann', got %v", args[0])
	}
}

func TestSetBuilder_Set_MultipleFields(t *testing.T) {
	sb := NewSetBuilder()
	sb.Set("name", "Ann")
	sb.Set("age", 30)

	clause, args := sb.Build()

	expected := "SET name = $1, age = $2"
	if clause != expected {
		t.Errorf("expected %q, got %q", expected, clause)
	}

	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}

	if args[0] != "Ann" || args[1] != 30 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestSetBuilder_Arg_ContinuesNumbering(t *testing.T) {
	sb := NewSetBuilder()
	sb.Set("name", "Ann")
	sb.Set("email", "a@x.com")

	placeholder := sb.Arg(int64(7))
	if placeholder != "$3" {
		t.Errorf("expected placeholder $3, got %q", placeholder)
	}

	clause, args := sb.Build()
	if clause != "SET name = $1, email = $2" {
		t.Errorf("unexpected clause %q", clause)
	}

	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}

	if args[2] != int64(7) {
		t.Errorf("expected trailing arg 7, got %v", args[2])
	}
}

func TestSetBuilder_ZeroValueIsWritten(t *testing.T) {
	// An explicitly present zero value still produces an assignment;
	// merge semantics only skip fields that were never added.
	sb := NewSetBuilder()
	sb.Set("age", 0)

	clause, args := sb.Build()
	if clause != "SET age = $1" {
		t.Errorf("unexpected clause %q", clause)
	}
	if len(args) != 1 || args[0] != 0 {
		t.Errorf("unexpected args %v", args)
	}
}
