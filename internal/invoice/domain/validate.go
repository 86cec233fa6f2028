package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonTagName)
	})
	return validate
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// FieldError describes one invalid field of a draft.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// ValidationError lists every invalid field of a draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInvoice.Error()
	}
	return fmt.Sprintf("%s: %s (%s)", ErrInvalidInvoice, e.Fields[0].Field, e.Fields[0].Tag)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInvoice }

// Validate checks the canonical model ranges and formats. Item ids must
// additionally be unique.
func (d InvoiceData) Validate() error {
	var out ValidationError

	if err := validatorInstance().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe.Namespace()), Tag: fe.Tag()})
		}
	}

	seen := make(map[string]struct{}, len(d.Items))
	for _, item := range d.Items {
		if _, dup := seen[item.ID]; dup {
			out.Fields = append(out.Fields, FieldError{Field: "items.id", Tag: "unique"})
			break
		}
		seen[item.ID] = struct{}{}
	}

	if len(out.Fields) > 0 {
		return &out
	}
	return nil
}

// Issues lists the invalid fields of d, or nil when d is valid.
func (d InvoiceData) Issues() []FieldError {
	err := d.Validate()
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return []FieldError{{Field: "invoice", Tag: "invalid"}}
}

// fieldPath drops the root struct name: "InvoiceData.items[0].rate" becomes
// "items[0].rate".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
