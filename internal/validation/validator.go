package validation

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their json name so messages match the wire format.
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

			if name == "-" {
				return ""
			}

			return name
		})
	})

	return validatorInstance
}

// Validate the input struct against its validate tags. Messages are looked up
// by "<field>.<tag>" where nested fields use their dotted json path with slice
// indices replaced by "*". A nil map is returned when the input is valid.
func Validate(input any, messages map[string]string) map[string][]string {
	err := getValidator().Struct(input)

	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok {
		slog.Debug("Validation could not be performed", "error", err)

		return map[string][]string{"input": {err.Error()}}
	}

	errs := make(map[string][]string)

	for _, fieldError := range validationErrors {
		// Drop the struct name, e.g. "Table.schema[0].width" -> "schema[0].width"
		namespace := fieldError.Namespace()

		if index := strings.Index(namespace, "."); index >= 0 {
			namespace = namespace[index+1:]
		}

		messageKey := fmt.Sprintf("%s.%s", wildcard(namespace), fieldError.Tag())
		message := messages[messageKey]

		if message == "" {
			slog.Debug("Validation error message not found", "key", messageKey)
			message = fmt.Sprintf("failed on the '%s' rule", fieldError.Tag())
		}

		errs[namespace] = append(errs[namespace], message)
	}

	return errs
}

// Replace slice indices in a namespace with wildcards: "schema[2].width" ->
// "schema.*.width".
func wildcard(namespace string) string {
	var builder strings.Builder

	inIndex := false

	for _, ch := range namespace {
		switch {
		case ch == '[':
			inIndex = true
			builder.WriteString(".*")
		case ch == ']':
			inIndex = false
		case !inIndex:
			builder.WriteRune(ch)
		}
	}

	return builder.String()
}
