package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// User-facing validation messages, kept in Ukrainian to match the client.
const (
	MsgFieldRequired = "Це поле обов'язкове"
	MsgInvalidEmail  = "Невірний формат електронної пошти"
	MsgWeakPassword  = "Пароль повинен містити мінімум 6 символів"
	MsgShortLogin    = "Логін повинен містити мінімум 3 символи"
	MsgEmptyComment  = "Коментар не може бути порожнім"
	MsgTitleRequired = "Назва обов'язкова"
	MsgPhotoRequired = "Фото обов'язкове"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a client-side invariant violation. It blocks the
// operation before any remote/storage work happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ValidateEmail checks the email shape only; deliverability is not our
// problem.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: MsgFieldRequired}
	}
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: MsgFieldRequired}
	}
	if len(password) < 6 {
		return &ValidationError{Field: "password", Message: MsgWeakPassword}
	}
	return nil
}

// ValidateLoginName enforces the minimum display-name length.
func ValidateLoginName(login string) error {
	if strings.TrimSpace(login) == "" {
		return &ValidationError{Field: "login", Message: MsgFieldRequired}
	}
	if len([]rune(login)) < 3 {
		return &ValidationError{Field: "login", Message: MsgShortLogin}
	}
	return nil
}

// Validate checks all registration fields.
func (r *RegisterRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	return ValidateLoginName(r.Login)
}

// Validate checks the login fields.
func (r *LoginRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return &ValidationError{Field: "password", Message: MsgFieldRequired}
	}
	return nil
}

// Validate rejects empty or whitespace-only comment text.
func (r *AddCommentRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Field: "text", Message: MsgEmptyComment}
	}
	return nil
}
