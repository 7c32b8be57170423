package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"studioflow/internal/domain/entities"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report json field names so clients can map errors back to their payload.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	})

	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch value := fl.Field().Interface().(type) {
		case entities.Role:
			return value.Valid()
		case string:
			return entities.Role(value).Valid()
		}
		return false
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Fields flattens validation errors into field -> failed rule, e.g. {"hours": "gt"}.
func (v *Validator) Fields(err error) map[string]string {
	ve := v.ValidationErrors(err)
	if len(ve) == 0 {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out[field] = fe.Tag()
	}
	return out
}
