package errtaxonomy

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessagesMatchExternalContract(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
		detail string
	}{
		{"extract connection", &ExtractConnectionError{Detail: "host unreachable"}, "Нет подключения к отправителю данных!", "host unreachable"},
		{"extract table", &ExtractTableError{Detail: "no such table: t"}, "Данные не были извлечены!", "no such table: t"},
		{"load connection", &LoadConnectionError{Detail: "host unreachable"}, "Нет подключения к получателю данных!", "host unreachable"},
		{"load table", &LoadTableError{Detail: "constraint failed"}, "Данные не были загружены!", "constraint failed"},
		{"transform", &TransformError{Column: "name", Message: "value is not a valid string", Index: "1"}, "Ошибка валидации:", "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.err.Error(), tt.prefix) {
				t.Errorf("Error() = %q, want prefix %q", tt.err.Error(), tt.prefix)
			}
			if !strings.Contains(tt.err.Error(), tt.detail) {
				t.Errorf("Error() = %q, want to contain %q", tt.err.Error(), tt.detail)
			}
		})
	}
}

func TestErrorsAsMatchesConcreteType(t *testing.T) {
	var err error = &LoadTableError{Detail: "dup key"}
	var target *LoadTableError
	if !errors.As(err, &target) {
		t.Fatal("expected errors.As to match LoadTableError")
	}
	if target.Detail != "dup key" {
		t.Errorf("Detail = %q, want %q", target.Detail, "dup key")
	}
}
