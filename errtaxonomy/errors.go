// Package errtaxonomy classifies the five failure modes an ETL run can hit
// (spec.md "ERROR HANDLING DESIGN"). The template strings are part of the
// external contract for log-scraping compatibility (spec.md "EXTERNAL
// INTERFACES") and are kept bit-exact from the original implementation
// (original_source/.../etl/errors.py) rather than translated, since changing
// them would break that contract.
package errtaxonomy

import "fmt"

// ExtractError is the umbrella kind for Select/Join read failures.
type ExtractError interface {
	error
	extractError()
}

// ExtractConnectionError reports that the source backend was unreachable.
type ExtractConnectionError struct {
	Detail string
}

func (e *ExtractConnectionError) Error() string {
	return fmt.Sprintf("Нет подключения к отправителю данных!\nПричина: %s", e.Detail)
}
func (e *ExtractConnectionError) extractError() {}

// ExtractTableError reports that the source resource was missing or
// otherwise invalid.
type ExtractTableError struct {
	Detail string
}

func (e *ExtractTableError) Error() string {
	return fmt.Sprintf("Данные не были извлечены!\nПричина: %s", e.Detail)
}
func (e *ExtractTableError) extractError() {}

// TransformError reports a row-validation failure: the offending column,
// a human message, and the row's index value (spec "Validator").
type TransformError struct {
	Column  string
	Message string
	Index   string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("Ошибка валидации:\n- колонка: %s\n- сообщение: %s\n- строка: %s\n",
		e.Column, e.Message, e.Index)
}

// LoadError is the umbrella kind for Load/Sync write failures.
type LoadError interface {
	error
	loadError()
}

// LoadConnectionError reports that the target backend was unreachable.
type LoadConnectionError struct {
	Detail string
}

func (e *LoadConnectionError) Error() string {
	return fmt.Sprintf("Нет подключения к получателю данных!\nПричина: %s", e.Detail)
}
func (e *LoadConnectionError) loadError() {}

// LoadTableError reports a constraint violation or missing resource on the
// target.
type LoadTableError struct {
	Detail string
}

func (e *LoadTableError) Error() string {
	return fmt.Sprintf("Данные не были загружены!\nПричина: %s", e.Detail)
}
func (e *LoadTableError) loadError() {}
