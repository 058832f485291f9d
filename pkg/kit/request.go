package kit

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

var (
	ErrBadJSON    = errors.New("bad json")
	ErrValidation = errors.New("validation failed")
)

// RequestError carries per-field messages back to the client.
type RequestError struct {
	Err     error
	Details map[string]string
}

func (e *RequestError) Error() string { return e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSON reads exactly one JSON object into dst and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return &RequestError{Err: ErrBadJSON, Details: map[string]string{"cause": err.Error()}}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &RequestError{Err: ErrBadJSON, Details: map[string]string{"cause": "extra data after json object"}}
	}

	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) *RequestError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Err: ErrValidation, Details: map[string]string{"cause": err.Error()}}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = validationMessage(fe)
	}
	return &RequestError{Err: ErrValidation, Details: details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}

// WriteRequestError renders a DecodeJSON failure as 400.
func WriteRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var re *RequestError
	if errors.As(err, &re) {
		WriteError(w, r, http.StatusBadRequest, re.Err.Error(), re.Details)
		return
	}
	WriteError(w, r, http.StatusBadRequest, ErrBadJSON.Error(), nil)
}
