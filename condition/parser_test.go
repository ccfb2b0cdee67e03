package condition

import "testing"

func mustParse(t *testing.T, input string) Expr {
	t.Helper()
	expr, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return expr
}

func TestParseSimpleEquality(t *testing.T) {
	expr := mustParse(t, `status == "active"`)
	ok, err := expr.Eval(map[string]any{"status": "active"})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true, nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"status": "disabled"})
	if err != nil || ok {
		t.Fatalf("Eval() = %v, %v, want false, nil", ok, err)
	}
}

func TestParseNumericComparison(t *testing.T) {
	expr := mustParse(t, "score >= 4.5")
	ok, err := expr.Eval(map[string]any{"score": 4.5})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true, nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"score": 4})
	if err != nil || ok {
		t.Fatalf("Eval() = %v, %v, want false, nil", ok, err)
	}
}

func TestParseAndOrPrecedence(t *testing.T) {
	// "and" binds tighter than "or": a or (b and c)
	expr := mustParse(t, "a == 1 or b == 2 and c == 3")
	ok, err := expr.Eval(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true (a matches), nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"a": 0.0, "b": 2.0, "c": 3.0})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true (b and c match), nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"a": 0.0, "b": 2.0, "c": 0.0})
	if err != nil || ok {
		t.Fatalf("Eval() = %v, %v, want false, nil", ok, err)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	expr := mustParse(t, "(a == 1 or b == 2) and c == 3")
	ok, err := expr.Eval(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0})
	if err != nil || ok {
		t.Fatalf("Eval() = %v, %v, want false (c doesn't match), nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"a": 1.0, "b": 0.0, "c": 3.0})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true, nil", ok, err)
	}
}

func TestParseNot(t *testing.T) {
	expr := mustParse(t, `not status == "deleted"`)
	ok, err := expr.Eval(map[string]any{"status": "active"})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true, nil", ok, err)
	}
}

func TestParseBareIdentifierIsTruthy(t *testing.T) {
	expr := mustParse(t, "enabled")
	ok, err := expr.Eval(map[string]any{"enabled": true})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true, nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"enabled": nil})
	if err != nil || ok {
		t.Fatalf("Eval() = %v, %v, want false, nil", ok, err)
	}
}

func TestParseNullComparison(t *testing.T) {
	expr := mustParse(t, "deleted_at != null")
	ok, err := expr.Eval(map[string]any{"deleted_at": "2024-01-01"})
	if err != nil || !ok {
		t.Fatalf("Eval() = %v, %v, want true, nil", ok, err)
	}
	ok, err = expr.Eval(map[string]any{"deleted_at": nil})
	if err != nil || ok {
		t.Fatalf("Eval() = %v, %v, want false, nil", ok, err)
	}
}

func TestParseUnterminatedStringIsError(t *testing.T) {
	_, err := Parse(`name == "unterminated`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestParseTrailingTokenIsError(t *testing.T) {
	_, err := Parse(`a == 1 )`)
	if err == nil {
		t.Fatal("expected error for unexpected trailing token")
	}
}

func TestParseNonNumericComparisonIsError(t *testing.T) {
	expr := mustParse(t, `name > "z"`)
	_, err := expr.Eval(map[string]any{"name": "a"})
	if err == nil {
		t.Fatal("expected error comparing non-numeric operands with >")
	}
}
