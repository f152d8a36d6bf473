package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxUsernameLength = 20

var (
	ErrUsernameEmpty   = errors.New("Please enter a username")
	ErrUsernameTooLong = errors.New("Username must be less than 20 characters")
	ErrUsernameChars   = errors.New("Username can only contain letters, numbers, and underscores")

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

var Validator = validator.New()

func init() {
	if err := Validator.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return Username(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}
}

// Username checks a username the same way the login form does and returns the
// message to show next to it.
func Username(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameEmpty
	}
	if len(username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameChars
	}
	return nil
}

// Struct validates v and turns the first failure into a readable error.
func Struct(v interface{}) error {
	err := Validator.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "username":
		return Username(fmt.Sprint(fe.Value()))
	case "required":
		if fe.Field() == "Username" {
			return ErrUsernameEmpty
		}
		return fmt.Errorf("%s is required", fe.Field())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}
