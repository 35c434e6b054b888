package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

// IsUsername 自定义校验函数：用户名只允许字母、数字和下划线，3-50 位
func IsUsername(fl validator.FieldLevel) bool {
	return usernameRe.MatchString(fl.Field().String())
}
