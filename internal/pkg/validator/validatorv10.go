package validator

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/evoting/internal/pkg/strcase"
)

var ErrTranslatorNotFound = errors.New("translator not found")

// rule is a custom tag with its English message. A nil check means the tag
// is built in and only the message is overridden.
type rule struct {
	tag   string
	check *regexp.Regexp
	msg   string
}

var rules = []rule{
	// national ID equivalents after spaces and hyphens are stripped
	{tag: "identifier", check: regexp.MustCompile(`^[A-Za-z0-9]{4,64}$`), msg: "{0} must be 4-64 letters or digits"},
	{tag: "otp", check: regexp.MustCompile(`^[0-9]{6,8}$`), msg: "{0} must be a numeric one-time code"},
	{tag: "eth_addr", msg: "{0} must be a valid voting address"},
}

// V10Validator validates with go-playground/validator and reports errors
// keyed by snake_case field name.
type V10Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strcase.ToLowerSnake(f.Name)
	})

	enLang := en.New()
	trans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := register(validate, trans, r); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, trans: trans}, nil
}

func register(validate *validator.Validate, trans ut.Translator, r rule) error {
	if r.check != nil {
		re := r.check
		err := validate.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && re.MatchString(s)
		})
		if err != nil {
			return err
		}
	}

	return validate.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error { return t.Add(r.tag, r.msg, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := make(FieldErrors, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = fe.Translate(v.trans)
	}
	return out
}
