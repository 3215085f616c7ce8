package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"FinAI_Community/internal/pkg"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct 只报告第一个不合法字段
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return pkg.ValidationError(err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return pkg.ValidationError(fmt.Sprintf("%s is required", fe.Field()))
	case "min":
		if fe.Kind() == reflect.String {
			return pkg.ValidationError(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		}
		return pkg.ValidationError(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	case "gt":
		return pkg.ValidationError(fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
	case "oneof":
		return pkg.ValidationError(fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
	default:
		return pkg.ValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
