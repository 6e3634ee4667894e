package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/ensapi/base/ethereum"
)

// TagEthAddress validates a string field holding a hex address
const TagEthAddress = "ethaddr"

// IsValidAddress returns is an address valid or not. Mixed case addresses
// must carry a correct checksum.
func IsValidAddress(address string) bool {
	_, err := ethereum.ParseAddress(address)
	return err == nil
}

// New returns a validator with the custom tags of this service registered
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(TagEthAddress, func(fl validator.FieldLevel) bool {
		return IsValidAddress(fl.Field().String())
	})
	return v
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
