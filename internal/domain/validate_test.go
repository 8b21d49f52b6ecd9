package domain

import (
	"errors"
	"testing"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Field
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"user.name+tag@sub.example.co",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"plainaddress",
		"bad@@format",
		"@example.com",
		"user@",
		"user@nodot",
		"with space@example.com",
	}
	for _, email := range invalid {
		err := ValidateEmail(email)
		if err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
			continue
		}
		if f := fieldOf(t, err); f != "email" {
			t.Errorf("ValidateEmail(%q) field = %q, want email", email, f)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret"); err != nil {
		t.Errorf("six characters should pass: %v", err)
	}
	if err := ValidatePassword("12345"); err == nil {
		t.Error("five characters should fail")
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("empty password should fail")
	}
}

func TestValidateLoginName(t *testing.T) {
	if err := ValidateLoginName("abc"); err != nil {
		t.Errorf("three characters should pass: %v", err)
	}
	// Length counts runes, not bytes.
	if err := ValidateLoginName("Оля"); err != nil {
		t.Errorf("three cyrillic characters should pass: %v", err)
	}
	if err := ValidateLoginName("ab"); err == nil {
		t.Error("two characters should fail")
	}
	if err := ValidateLoginName("  "); err == nil {
		t.Error("whitespace-only login should fail")
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	req := &RegisterRequest{Email: "user@example.com", Login: "traveler", Password: "secret"}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := &RegisterRequest{Email: "bad@@format", Login: "traveler", Password: "secret"}
	err := bad.Validate()
	if err == nil {
		t.Fatal("malformed email accepted")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != MsgInvalidEmail {
		t.Fatalf("expected %q, got %v", MsgInvalidEmail, err)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	req := &LoginRequest{Email: "user@example.com", Password: "secret"}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	if err := (&LoginRequest{Email: "user@example.com"}).Validate(); err == nil {
		t.Fatal("missing password accepted")
	}
	if err := (&LoginRequest{Email: "nope", Password: "secret"}).Validate(); err == nil {
		t.Fatal("malformed email accepted")
	}
}

func TestAddCommentRequestValidate(t *testing.T) {
	if err := (&AddCommentRequest{Text: "Чудове фото!"}).Validate(); err != nil {
		t.Fatalf("valid comment rejected: %v", err)
	}
	for _, text := range []string{"", "   ", "\n\t"} {
		err := (&AddCommentRequest{Text: text}).Validate()
		if err == nil {
			t.Errorf("blank comment %q accepted", text)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Message != MsgEmptyComment {
			t.Errorf("expected %q for %q, got %v", MsgEmptyComment, text, err)
		}
	}
}

func TestToProfileLoginFallback(t *testing.T) {
	u := &User{ID: "u1", Email: "mariya@example.com", Login: ""}
	p := u.ToProfile()
	if p.Login != "mariya" {
		t.Fatalf("expected email local part as login, got %q", p.Login)
	}

	u.Login = "Марія"
	if got := u.ToProfile().Login; got != "Марія" {
		t.Fatalf("explicit login must win, got %q", got)
	}
}

func TestLocationDataValid(t *testing.T) {
	good := LocationData{Latitude: 48.8363, Longitude: 23.4462, Title: "Славське"}
	if !good.Valid() {
		t.Fatal("in-range coordinates rejected")
	}
	if (LocationData{Latitude: 91}).Valid() {
		t.Fatal("latitude above range accepted")
	}
	if (LocationData{Longitude: -181}).Valid() {
		t.Fatal("longitude below range accepted")
	}
}

func TestPostLikedBy(t *testing.T) {
	p := &Post{Likes: []string{"u1", "u2"}}
	if !p.LikedBy("u1") {
		t.Fatal("expected u1 in like set")
	}
	if p.LikedBy("u3") {
		t.Fatal("unexpected u3 in like set")
	}
}
