package validator

import (
	"errors"
	"reflect"
	"strings"

	"todoapp/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"notblank": "{field} cannot be empty",
		"notpast":  "{field} cannot be in the past",
		"datetime": "{field} must be a valid date in YYYY-MM-DD format",
		"gt":       "{field} must be greater than {param}",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of: {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"unique":   "{field} must not contain duplicates",
		"boolean":  "{field} must be a boolean value",
	}

	stringMessages = map[string]string{
		"max": "{field} cannot exceed {param} characters",
		"min": "{field} must be at least {param} characters",
	}

	sliceMessages = map[string]string{
		"required": "{field} must contain at least one item",
		"max":      "{field} cannot contain more than {param} items",
		"min":      "{field} must contain at least {param} item(s)",
	}
)

func template(valErr val.FieldError) string {
	tag := valErr.Tag()

	switch valErr.Kind() {
	case reflect.String:
		if msg, ok := stringMessages[tag]; ok {
			return msg
		}
	case reflect.Slice, reflect.Array, reflect.Map:
		if msg, ok := sliceMessages[tag]; ok {
			return msg
		}
	}

	return messages[tag]
}

func render(msg, field, param string) string {
	msg = strings.ReplaceAll(msg, "{field}", field)
	msg = strings.ReplaceAll(msg, "{param}", strings.Join(strings.Fields(param), ", "))

	return msg
}

// report collects field messages in the order they were found. The first message for a field wins.
type report struct {
	summary []string
	details map[string]string
}

func (r *report) add(field, msg string) {
	if r.details == nil {
		r.details = map[string]string{}
	}

	if _, seen := r.details[field]; seen {
		return
	}

	r.details[field] = msg
	r.summary = append(r.summary, msg)
}

func (r *report) addValidation(err error) {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return
	}

	for _, valErr := range valErrors {
		errStr := template(valErr)
		if errStr == "" {
			errStr = "{field} is invalid"
		}

		r.add(valErr.Field(), render(errStr, valErr.Field(), valErr.Param()))
	}
}

// asError returns nil when nothing was reported.
func (r *report) asError() error {
	if len(r.summary) == 0 {
		return nil
	}

	return failure.Validation(strings.Join(r.summary, "; "), r.details) //nolint:wrapcheck
}

// message renders every field error. The summary joins all messages and details maps each field to its message.
func message(err error) (string, map[string]string) {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error(), nil
	}

	var r report
	r.addValidation(err)

	return strings.Join(r.summary, "; "), r.details
}

func typeMessage(field string, typ reflect.Type) string {
	if typ == nil {
		return field + " has an invalid type"
	}

	switch typ.Kind() {
	case reflect.Bool:
		return render(messages["boolean"], field, "")
	case reflect.String:
		return field + " must be a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field + " must be an integer"
	case reflect.Float32, reflect.Float64:
		return field + " must be a number"
	case reflect.Slice, reflect.Array:
		return field + " must be an array"
	case reflect.Ptr:
		return typeMessage(field, typ.Elem())
	default:
		return field + " has an invalid type"
	}
}
