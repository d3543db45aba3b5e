package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// fieldLabels подписи полей в сообщениях об ошибках
var fieldLabels = map[string]string{
	"name":     "nome",
	"email":    "email",
	"password": "senha",
	"token":    "token",
	"title":    "título",
	"content":  "conteúdo",
	"message":  "mensagem",
	"status":   "status",
}

// Validator проверяет входные данные и переводит ошибки на португальский
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator валидатор с json именами полей и переводом pt_BR
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	locale := pt_BR.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("pt_BR")
	_ = pt_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if label, ok := fieldLabels[name]; ok {
			return label
		}
		return name
	})

	return &Validator{validate: validate, translator: translator}
}

// ValidationError ошибка ввода с готовым текстом для пользователя
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Struct проверяет структуру по тегам validate
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(v.translator))
	}
	return &ValidationError{Message: strings.Join(messages, "\n")}
}

// Var проверяет одно значение, field подпись поля в сообщении
func (v *Validator) Var(field string, value interface{}, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		msg := fieldErrs[0].Translate(v.translator)
		// Var не знает имени поля
		return &ValidationError{Message: strings.TrimSpace(field + " " + msg)}
	}
	return &ValidationError{Message: err.Error()}
}
