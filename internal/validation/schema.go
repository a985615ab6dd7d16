// Package validation define los esquemas de los formularios de acceso y registro.
// Las paginas y el resolver de credenciales usan los mismos esquemas.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SignInInput es el esquema del formulario de acceso.
type SignInInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=32,bcryptlen"`
}

// SignUpInput es el esquema del formulario de registro.
type SignUpInput struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=32,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

// FieldError es un mensaje legible asociado a un campo del formulario.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los errores de campo de un formulario.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Invalid input."
	}
	return e.Fields[0].Message
}

// Message devuelve el mensaje del campo indicado, o "" si es valido.
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// MaxPasswordBytes es el limite de entrada de bcrypt.
const MaxPasswordBytes = 72

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		})
	})
	return validate
}

// ValidateSignIn valida el formulario de acceso.
func ValidateSignIn(in SignInInput) error {
	return check(in)
}

// ValidateSignUp valida el formulario de registro.
func ValidateSignUp(in SignUpInput) error {
	return check(in)
}

func check(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "email":
		if fe.Tag() == "required" {
			return "Email is required."
		}
		return "Invalid email address."
	case "password":
		switch fe.Tag() {
		case "required":
			return "Password is required."
		case "min":
			return "Password must be at least 8 characters."
		case "max":
			return "Password must be at most 32 characters."
		case "bcryptlen":
			return "Password is too long."
		}
	case "confirmPassword":
		if fe.Tag() == "required" {
			return "Please confirm your password."
		}
		return "Passwords do not match."
	}
	return "Invalid " + fe.Field() + "."
}
