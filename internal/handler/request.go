package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
)

var validate = validator.New()

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// An empty body decodes as {} so required-field errors are reported by name.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.BadRequest("request body too large")
		}
		return apperrors.BadRequest("invalid request body")
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return apperrors.ValidationError(strings.Join(msgs, "; "))
		}
		return apperrors.BadRequest("invalid request body")
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "uuid":
		return field + " must be a valid id"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func jsonFieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return strings.ToLower(fe.StructField())
}

// amount accepts a JSON number or a numeric string.
type amount float64

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid amount %q", data)
	}
	*a = amount(v)
	return nil
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
