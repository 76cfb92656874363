package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"todoapp/shared/constant"
	"todoapp/shared/failure"
	"todoapp/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// Normalizer is implemented by request bodies that clean their input (trimming, canonical casing)
// after decoding and before validation.
type Normalizer interface {
	Normalize()
}

func registerNotBlankValidation(field val.FieldLevel) bool {
	if str, ok := field.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}

	return !field.Field().IsZero()
}

func registerNotPastValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	date, err := timezone.Parse(constant.DateOnlyFormat, str)
	if err != nil {
		// format errors are reported by the datetime tag
		return true
	}

	return !date.Before(timezone.Today())
}

func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)

	err := validate.RegisterValidation("notblank", registerNotBlankValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("notpast", registerNotPastValidation)
	if err != nil {
		panic(err)
	}
}

// RegisterValidation adds a domain specific tag together with the message reported when it fails.
// It must be called during package initialisation, before any validation runs.
func RegisterValidation(tag string, fn val.Func, msg string) error {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("registering %s validation: %w", tag, err)
	}

	messages[tag] = msg

	return nil
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. A field with the wrong JSON type is reported together
// with the rule violations of the other fields. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	var rep report
	if err := decode(r, data, &rep); err != nil {
		return err
	}

	err := validate.Struct(data)

	var valErrors val.ValidationErrors
	if err != nil && !errors.As(err, &valErrors) {
		return failure.Validation(err.Error(), nil) //nolint:wrapcheck
	}

	rep.addValidation(err)

	return rep.asError()
}

// Decode reads a JSON body into data and runs its Normalize hook. Type mismatches are reported per field.
func Decode[T any](r io.Reader, data *T) error {
	var rep report
	if err := decode(r, data, &rep); err != nil {
		return err
	}

	return rep.asError()
}

// decode keeps going past a type mismatch, since encoding/json still fills the remaining fields.
func decode[T any](r io.Reader, data *T, rep *report) error {
	err := json.NewDecoder(r).Decode(data)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return decodeFailure(err)
		}

		rep.add(typeErr.Field, typeMessage(typeErr.Field, typeErr.Type))
	}

	if n, ok := any(data).(Normalizer); ok {
		n.Normalize()
	}

	return nil
}

func decodeFailure(err error) error {
	if errors.Is(err, io.EOF) {
		return failure.BadRequestFromString("request body is required") //nolint:wrapcheck
	}

	return failure.BadRequest(fmt.Errorf("invalid JSON body: %w", err)) //nolint:wrapcheck
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg, details := message(err)

		return failure.Validation(msg, details) //nolint:wrapcheck
	}

	return nil
}
