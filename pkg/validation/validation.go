// Package validation checks request structs with go-playground/validator and
// reports failures as CodeValidation errors named after the JSON fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "coldchain/pkg/domain-errors"
	strutil "coldchain/pkg/string"
)

var (
	platePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{1,14}$`)
	validate     = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		return platePattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// fieldName reports a field by its JSON name, or in snake case when it has
// none. Fields tagged json:"-" are skipped.
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return strutil.ToSnakeCase(f.Name)
	}
	return name
}

var messages = map[string]func(field, param string) string{
	"required": func(f, _ string) string { return f + " is required" },
	"email":    func(f, _ string) string { return f + " must be a valid email" },
	"uuid":     func(f, _ string) string { return f + " must be a valid uuid" },
	"min":      func(f, p string) string { return fmt.Sprintf("%s must be at least %s", f, p) },
	"max":      func(f, p string) string { return fmt.Sprintf("%s must be at most %s", f, p) },
	"gt":       func(f, p string) string { return fmt.Sprintf("%s must be greater than %s", f, p) },
	"oneof":    func(f, p string) string { return fmt.Sprintf("%s must be one of [%s]", f, p) },
	"notblank": func(f, _ string) string { return f + " must not be blank" },
	"plate":    func(f, _ string) string { return f + " must be 2-15 uppercase letters, digits, spaces or dashes" },
}

// Validate checks req against its validate tags.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage lists every failed field, separated by "; ".
func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.ActualTag()]; ok {
			out = append(out, msg(fe.Field(), fe.Param()))
			continue
		}
		out = append(out, fe.Field()+" is invalid")
	}
	return strings.Join(out, "; ")
}
