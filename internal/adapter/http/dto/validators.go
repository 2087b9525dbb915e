package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"wallet-transaction-api/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

// txidRe rejects control characters; anything printable is a valid txid.
var txidRe = regexp.MustCompile(`^[^\x00-\x1f\x7f]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("decimal_string", validateDecimalString)
		_ = v.RegisterValidation("txid", validateTxID)
	}
}

// jsonFieldName makes validation errors report the field as clients spell it.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// validateDecimalString accepts numbers within domain decimal bounds.
func validateDecimalString(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true // optional field; use "required" tag to enforce presence
	}
	_, err := domain.ParseDecimal(raw)
	return err == nil
}

func validateTxID(fl validator.FieldLevel) bool {
	return txidRe.MatchString(fl.Field().String())
}

// SanitizeStruct trims surrounding whitespace from every exported string
// field (including *string and nested structs) of a struct pointer. Values
// are stored verbatim otherwise, so a txid keeps its exact bytes.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Struct:
			sanitizeFields(f)
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			switch elem.Kind() {
			case reflect.String:
				elem.SetString(strings.TrimSpace(elem.String()))
			case reflect.Struct:
				sanitizeFields(elem)
			}
		}
	}
}
