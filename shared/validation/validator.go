package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 128
	passwordSymbols   = "@$!%*?&"
	hashtagMaxLength  = 30
)

var (
	contactNumberPattern = regexp.MustCompile(`^\+\d{9,14}$`)
	hashtagPattern       = regexp.MustCompile(`^#[A-Za-z0-9_]+$`)
)

// Error is the first failed constraint of a request, already translated to English.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validator validates request payloads using struct tags.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with English messages and the custom rules
// password_policy, contact_number and hashtag registered.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	rules := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{
			tag:     "password_policy",
			fn:      func(fl validator.FieldLevel) bool { return IsStrongPassword(fl.Field().String()) },
			message: "{0} must be 8 to 128 characters and contain at least one letter, one number, and one special character (@$!%*?&)",
		},
		{
			tag:     "contact_number",
			fn:      func(fl validator.FieldLevel) bool { return contactNumberPattern.MatchString(fl.Field().String()) },
			message: "{0} should follow the format +[country_code][number] (e.g., +441234567890)",
		},
		{
			tag: "hashtag",
			fn: func(fl validator.FieldLevel) bool {
				v := fl.Field().String()
				return len(v) <= hashtagMaxLength && hashtagPattern.MatchString(v)
			},
			message: "each hashtag must start with a # and contain only letters, numbers, and underscores",
		},
	}

	for _, r := range rules {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, err
		}
		if err := registerMessage(validate, trans, r.tag, r.message); err != nil {
			return nil, err
		}
	}

	return &Validator{validate: validate, trans: trans}, nil
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, message string) error {
	return validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

// Struct validates s and returns an *Error describing the first violation.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &Error{Field: fe.Field(), Message: fe.Translate(v.trans)}
	}

	return err
}

// IsStrongPassword reports whether password satisfies the account password policy:
// 8 to 128 characters drawn from letters, digits and @$!%*?&, with at least one of each.
func IsStrongPassword(password string) bool {
	if len(password) < passwordMinLength || len(password) > passwordMaxLength {
		return false
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}

	return hasLetter && hasDigit && hasSymbol
}
