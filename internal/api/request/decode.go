package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrInvalidBody is returned for bodies that are not valid JSON for the target type
var ErrInvalidBody = errors.New("invalid request body")

// ValidationError lists every failed field rule
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Details, "; ")
}

// Decode reads a JSON body into dst and validates it
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	// An empty body decodes as {}
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return Validate(dst)
}

// Validate runs struct validation rules
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			ve.Details = append(ve.Details, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			ve.Details = append(ve.Details, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "min":
			ve.Details = append(ve.Details, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "len":
			ve.Details = append(ve.Details, fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param()))
		default:
			ve.Details = append(ve.Details, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return ve
}
