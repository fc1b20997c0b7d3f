package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

const (
	MesReferenciaTag  = "mesref"
	mesReferenciaText = "{0} must be a month in YYYY-MM format"

	cpfTag  = "cpf"
	cpfText = "{0} must contain 11 digits"
)

var (
	mesReferenciaRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	cpfRegex           = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)

	translatorOnce sync.Once
	translator     ut.Translator
)

func defaultTranslator() ut.Translator {
	translatorOnce.Do(func() {
		english := en.New()
		uni := ut.New(english, english)
		translator, _ = uni.GetTranslator("en")
	})
	return translator
}

// New returns a validator that reports JSON field names and knows the
// domain tags used by request payloads.
func New() *validator.Validate {
	validate := validator.New()
	trans := defaultTranslator()
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(MesReferenciaTag, func(fl validator.FieldLevel) bool {
		return IsMesReferencia(fl.Field().String())
	})
	registerTranslation(validate, trans, MesReferenciaTag, mesReferenciaText)

	_ = validate.RegisterValidation(cpfTag, func(fl validator.FieldLevel) bool {
		return cpfRegex.MatchString(fl.Field().String())
	})
	registerTranslation(validate, trans, cpfTag, cpfText)

	return validate
}

// IsMesReferencia reports whether value is a YYYY-MM billing month.
func IsMesReferencia(value string) bool {
	return mesReferenciaRegex.MatchString(value)
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Wrap converts a validation failure into a 400 error carrying one entry per
// invalid field. Errors that are not validator errors are wrapped as-is.
func Wrap(err error, message string) *appErrors.Error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr
	}
	trans := defaultTranslator()
	details := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, appErrors.FieldError{Field: fieldPath(fe), Message: fe.Translate(trans)})
	}
	return appErrors.WithDetails(appErr, details...)
}

// Field builds a single-field validation error for rules checked outside struct tags.
func Field(message, field, reason string) *appErrors.Error {
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, message), appErrors.FieldError{Field: field, Message: reason})
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
