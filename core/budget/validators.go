package budget

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	rangeTag  = "budgetrange"
	rangeText = "{0} must be one of week, month, year or all"

	hexColorText = "{0} must be a color formatted as #rrggbb"
)

// InitValidators registers the budget validation rules.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(rangeTag, rangeValidation)
	core.RegisterCustomTranslation(validate, translator, rangeTag, rangeText)
	core.RegisterCustomTranslation(validate, translator, "hexcolor", hexColorText, true)
}

func rangeValidation(fl validator.FieldLevel) bool {
	return ValidRange(fl.Field().String())
}

func ValidRange(r string) bool {
	if r == RangeAll {
		return true
	}
	_, ok := rangeDays[r]
	return ok
}
