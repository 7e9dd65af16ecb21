package httpx

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// report json field names, not Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Violation messages, worded the way API clients already display them.
const (
	MsgNotBlank     = "This value should not be blank."
	MsgNotNull      = "This value should not be null."
	MsgInvalidEmail = "This value is not a valid email address."
	MsgTooLong      = "This value is too long."
	MsgInvalidValue = "This value is not valid."
	MsgInvalidType  = "This value should be of the correct type."
)

// ValidateStruct runs the validate tags of s and returns one violation per
// failed field, in declaration order.
func ValidateStruct(s any) []Violation {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{PropertyPath: "", Message: MsgInvalidValue}}
	}

	var violations []Violation
	for _, fe := range validationErrors {
		var message string
		switch fe.Tag() {
		case "required":
			message = MsgNotBlank
		case "email":
			message = MsgInvalidEmail
		case "max":
			message = MsgTooLong
		default:
			message = MsgInvalidValue
		}
		violations = append(violations, Violation{
			PropertyPath: fe.Field(),
			Message:      message,
		})
	}
	return violations
}

// ViolationMap flattens violations into field -> message, keeping the first
// message reported for each field.
func ViolationMap(violations []Violation) map[string]string {
	out := make(map[string]string, len(violations))
	for _, v := range violations {
		if _, seen := out[v.PropertyPath]; !seen {
			out[v.PropertyPath] = v.Message
		}
	}
	return out
}
