package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// bcrypt hashes at most 72 bytes of input.
const maxPasswordBytes = 72

var personNameRe = regexp.MustCompile(`^[a-zA-Z\-]+$`)

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})

	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	registerMessage(v, trans, "personname", "{0} may only contain latin letters and hyphens")
	registerMessage(v, trans, "bcryptlen", "{0} must be at most 72 bytes long")

	return &Validator{validate: v, trans: trans}
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// Struct validates s and returns field -> message, or nil when s is valid.
func (v *Validator) Struct(s any) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string, len(ves))
	for _, fe := range ves {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = fe.Translate(v.trans)
		}
	}
	return errs
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// Text canonicalises user-supplied text: NFC, surrounding space trimmed.
func Text(s string) string { return strings.TrimSpace(norm.NFC.String(s)) }

func Email(s string) string { return strings.ToLower(Text(s)) }

// Password is NFC-normalised but never trimmed.
func Password(s string) string { return norm.NFC.String(s) }
