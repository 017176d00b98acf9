package timesheet

import (
	"math"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindings adds the hourstep rule to Gin's validator. Entry
// hours must land on a quarter-hour boundary.
func RegisterBindings() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("hourstep", func(fl validator.FieldLevel) bool {
		hours := fl.Field().Float()
		step := DefaultRules().HourStep
		if step <= 0 {
			return true
		}
		ratio := hours / step
		return math.Abs(ratio-math.Round(ratio)) < 1e-9
	})
}
