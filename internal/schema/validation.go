package schema

// validation.go provides row-level checks for loaded tables.
//
// Row checks never reject a row. The engine treats operation codes as opaque
// text and only looks at their first character, so a malformed value is
// still loaded and the problem is surfaced as a warning next to the data.

import (
	"fmt"
	"strings"
)

// AccessKeyLength is the fixed width of a fiscal document access key.
const AccessKeyLength = 44

// ValidationError represents a single problem found in a cell.
type ValidationError struct {
	Field   string // Column name
	Value   string // The offending value
	Message string // Human-readable description
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RowValidator checks rows against a table's field specifications.
type RowValidator struct {
	specs     []FieldSpec
	headerIdx HeaderIndex
}

// NewRowValidator creates a validator for the given specs and header index.
func NewRowValidator(specs []FieldSpec, headerIdx HeaderIndex) *RowValidator {
	return &RowValidator{
		specs:     specs,
		headerIdx: headerIdx,
	}
}

// ValidateRow returns every problem found in the row. A nil result means the
// row is clean.
func (v *RowValidator) ValidateRow(row []string) []ValidationError {
	var errs []ValidationError

	for _, spec := range v.specs {
		if !v.headerIdx.Has(spec.Name) {
			continue
		}

		raw := spec.Value(row, v.headerIdx)

		if raw == "" {
			if spec.Required && !spec.AllowEmpty {
				errs = append(errs, ValidationError{
					Field:   spec.Name,
					Message: "required field is empty",
				})
			}
			continue
		}

		if err := ValidateCell(raw, spec); err != nil {
			errs = append(errs, ValidationError{
				Field:   spec.Name,
				Value:   raw,
				Message: err.Error(),
			})
		}
	}

	return errs
}

// ValidateCell checks a single non-empty value against a field specification.
func ValidateCell(value string, spec FieldSpec) error {
	if value == "" {
		return nil
	}

	switch spec.Type {
	case FieldCode:
		if len(value) != 4 || !isDigits(value) {
			return fmt.Errorf("invalid operation code: must be 4 digits")
		}
		if value[0] < '1' || value[0] > '7' {
			return fmt.Errorf("invalid operation code: leading digit must be 1-7")
		}
	case FieldJurisdiction:
		if len(value) != 2 || strings.ToUpper(value) != value {
			if code := NormalizeJurisdiction(value); code != value && len(code) == 2 {
				return fmt.Errorf("invalid jurisdiction: must be a 2-letter code (did you mean %s?)", code)
			}
			return fmt.Errorf("invalid jurisdiction: must be a 2-letter code")
		}
	case FieldAccessKey:
		if len(value) != AccessKeyLength || !isDigits(value) {
			return fmt.Errorf("invalid access key: must be %d digits", AccessKeyLength)
		}
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
