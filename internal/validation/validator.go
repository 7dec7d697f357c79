// Package validation 注册自定义校验规则，并把校验错误转换为客户端可读的消息
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	// UsernameMinLength 用户名最小长度
	UsernameMinLength = 3
	// UsernameMaxLength 用户名最大长度
	UsernameMaxLength = 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var registerOnce sync.Once
var registerErr error

// IsValidUsername 3-20 位字母、数字或下划线
func IsValidUsername(username string) bool {
	n := len(username)
	return n >= UsernameMinLength && n <= UsernameMaxLength && usernamePattern.MatchString(username)
}

func validateUsername(fl validator.FieldLevel) bool {
	return IsValidUsername(fl.Field().String())
}

// Register 将自定义规则注册到 validator 实例
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("username", validateUsername); err != nil {
		return err
	}

	// 错误消息使用 json 字段名
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return nil
}

// RegisterWithGin 注册到 gin 默认的绑定校验器，多次调用只生效一次
func RegisterWithGin() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("validation: gin validator engine is not validator/v10")
			return
		}
		registerErr = Register(v)
	})
	return registerErr
}

// Message 把绑定或校验错误转换为一条消息
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return "Request body is not valid JSON"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	return "Invalid request"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "username":
		return fmt.Sprintf("%s must be %d-%d characters of letters, digits or underscore",
			field, UsernameMinLength, UsernameMaxLength)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
