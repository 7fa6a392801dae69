package project

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const isoDateLayout = "2006-01-02"

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(isoDateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateProjects checks every record and the uniqueness of IDs.
func ValidateProjects(v *validator.Validate, projects []Project) error {
	seen := make(map[int64]struct{}, len(projects))
	for i, p := range projects {
		if err := v.Struct(p); err != nil {
			return fmt.Errorf("%w: project[%d] (id %d): %s", ErrInvalidInput, i, p.ID, describe(err))
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must be a valid %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
