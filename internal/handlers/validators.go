package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// registerCustomValidators installs the currency_code binding rule used by
// the request DTO tags.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
			return domain.ValidCurrencyCode(fl.Field().String())
		})
	}
}
