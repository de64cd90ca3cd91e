package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

var (
	applicantEmailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern          = regexp.MustCompile(`^[+]*[(]?[0-9]{1,4}[)]?[-\s./0-9]*$`)
)

// NewValidator returns a validator that reports fields by their JSON names
// and knows the applicant-specific tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerApplicantValidators(v)
	return v
}

func registerApplicantValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("applicant_email", func(fl validator.FieldLevel) bool {
		return applicantEmailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// fieldPaths lists every violated field as a dotted JSON path, e.g. personalInfo.email.
func fieldPaths(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	seen := make(map[string]struct{}, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		// Drop the root struct name.
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		fields = append(fields, path)
	}
	return fields
}

// validationError converts a validator failure into the API validation error.
func validationError(err error, message string) error {
	if fields := fieldPaths(err); len(fields) > 0 {
		return appErrors.Validation(message, fields)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
