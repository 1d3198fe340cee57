package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
)

var registerOnce sync.Once

// registerValidators installs the custom rules on gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			return err == nil && len(fl.Field().String()) <= limit
		})
		_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			return models.TaskPriority(fl.Field().String()).IsValid()
		})

		v.RegisterStructValidation(validateUpdateTask, UpdateTaskRequest{})
	})
}

// Bind decodes the JSON body into obj and validates it. Any failure is
// returned as *apierrors.ValidationError.
func Bind(c *gin.Context, obj any) error {
	registerValidators()
	if err := c.ShouldBindJSON(obj); err != nil {
		return translate(err)
	}
	return nil
}

// Validate runs the binding rules on an already decoded value.
func Validate(obj any) error {
	registerValidators()
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return translate(err)
	}
	return nil
}

// Decode unmarshals raw JSON and validates the result, without an HTTP request.
func Decode(data []byte, obj any) error {
	if err := json.Unmarshal(data, obj); err != nil {
		return translate(err)
	}
	return Validate(obj)
}

func translate(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]apierrors.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, apierrors.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		return &apierrors.ValidationError{Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		if typeErr.Type == reflect.TypeOf(Date{}) {
			return apierrors.NewValidationError(field, "must be a valid date")
		}
		return apierrors.NewValidationError(field, "must be of type "+jsonTypeName(typeErr.Type))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apierrors.NewValidationError("body", "must be a valid JSON object")
	}

	return apierrors.NewValidationError("body", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "email":
		return "must be a valid email address"
	case "priority":
		return "must be one of low, medium, high"
	case "nefield":
		return "must differ from " + lowerFirst(fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	// UserID1 -> userId1
	s = strings.Replace(s, "ID", "Id", 1)
	return strings.ToLower(s[:1]) + s[1:]
}
