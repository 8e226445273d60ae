package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds the request validator with the decimal comparison tags
// used by the DTOs (decimal_gt, decimal_gte).
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("decimal_gt", decimalGT)
	_ = v.RegisterValidation("decimal_gte", decimalGTE)
	return v
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch value := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return value, true
	case *decimal.Decimal:
		if value == nil {
			return decimal.Decimal{}, false
		}
		return *value, true
	default:
		return decimal.Decimal{}, false
	}
}

func decimalGT(fl validator.FieldLevel) bool {
	value, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return value.GreaterThan(limit)
}

func decimalGTE(fl validator.FieldLevel) bool {
	value, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return value.GreaterThanOrEqual(limit)
}

// decodeJSON parses a request body into a typed DTO, rejecting unknown fields
// so malformed shapes never reach domain logic.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
