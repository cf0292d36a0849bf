package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"
)

type memSettings map[string]string

func (m memSettings) GetSetting(key string) string { return m[key] }
func (m memSettings) SetSetting(key, value string) error {
	m[key] = value
	return nil
}

func TestValidatePseudo(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ace", "ACE", true},
		{"  bob  ", "BOB", true},
		{"abcdefghijkl", "ABCDEFGHIJKL", true},
		{"ab", "", false},
		{"abcdefghijklm", "", false},
		{"   ", "", false},
		{"élan", "ÉLAN", true},
	}
	for _, tc := range tests {
		got, err := ValidatePseudo(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ValidatePseudo(%q) = %q, %v; want %q ok=%v", tc.in, got, err, tc.want, tc.ok)
		}
	}
}

func TestValidatePin(t *testing.T) {
	for _, pin := range []string{"1234", " 0000 "} {
		if _, err := ValidatePin(pin); err != nil {
			t.Errorf("ValidatePin(%q): %v", pin, err)
		}
	}
	for _, pin := range []string{"123", "12345", "12a4", "", "١٢٣٤"} {
		if _, err := ValidatePin(pin); err == nil {
			t.Errorf("ValidatePin(%q) should fail", pin)
		}
	}
}

func TestRegisterCreatesAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStatStore(ctrl)
	store.EXPECT().CreateAccount(gomock.Any(), "ACE", "1234").Return(true, nil)

	a := NewAuth(store, []byte("secret"), nil)
	p, token, err := a.Register(context.Background(), "ace", "1234", "1234")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Pseudo != "ACE" {
		t.Errorf("pseudo = %q, want ACE", p.Pseudo)
	}
	pseudo, err := a.ValidateToken(token)
	if err != nil || pseudo != "ACE" {
		t.Errorf("ValidateToken = %q, %v", pseudo, err)
	}
}

func TestRegisterRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStatStore(ctrl)
	a := NewAuth(store, []byte("secret"), nil)
	ctx := context.Background()

	// validation failures never reach the store
	if _, _, err := a.Register(ctx, "ace", "1234", "4321"); err == nil || err.Error() != "PINs do not match" {
		t.Errorf("mismatch err = %v", err)
	}
	if _, _, err := a.Register(ctx, "x", "1234", "1234"); err == nil {
		t.Error("short pseudo should fail")
	}
	if _, _, err := a.Register(ctx, "ace", "12", "12"); err == nil {
		t.Error("short PIN should fail")
	}

	store.EXPECT().CreateAccount(gomock.Any(), "ACE", "1234").Return(false, nil)
	if _, _, err := a.Register(ctx, "ace", "1234", "1234"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("taken err = %v, want ErrNameTaken", err)
	}

	store.EXPECT().CreateAccount(gomock.Any(), "BOB", "1234").Return(false, errors.New("disk full"))
	if _, _, err := a.Register(ctx, "bob", "1234", "1234"); err == nil || errors.Is(err, ErrNameTaken) {
		t.Errorf("store failure err = %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStatStore(ctrl)
	a := NewAuth(store, []byte("secret"), nil)
	ctx := context.Background()

	store.EXPECT().Login(gomock.Any(), "ACE", "1234").Return(&Profile{Pseudo: "ACE", BestScore: 7}, nil)
	p, token, err := a.Login(ctx, " ace ", "1234", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.BestScore != 7 || token == "" {
		t.Errorf("profile = %+v, token %q", p, token)
	}

	store.EXPECT().Login(gomock.Any(), "ACE", "0000").Return(nil, ErrBadCredentials)
	if _, _, err := a.Login(ctx, "ace", "0000", "1.2.3.4"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong PIN err = %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStatStore(ctrl)
	store.EXPECT().Login(gomock.Any(), "ACE", "0000").Return(nil, ErrBadCredentials).Times(maxLoginAttempts + 1)

	a := NewAuth(store, []byte("secret"), nil)
	now := time.Unix(1_700_000_000, 0)
	a.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < maxLoginAttempts; i++ {
		if _, _, err := a.Login(ctx, "ace", "0000", "9.9.9.9"); !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("attempt %d err = %v", i+1, err)
		}
	}
	if _, _, err := a.Login(ctx, "ace", "0000", "9.9.9.9"); !errors.Is(err, ErrTooManyAttempts) {
		t.Errorf("over the limit err = %v, want ErrTooManyAttempts", err)
	}

	now = now.Add(loginRateWindow + time.Second)
	if _, _, err := a.Login(ctx, "ace", "0000", "9.9.9.9"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("after the window err = %v, want ErrBadCredentials", err)
	}
}

func TestCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStatStore(ctrl)
	store.EXPECT().AccountExists(gomock.Any(), "ACE").Return(true, nil)

	a := NewAuth(store, []byte("secret"), nil)
	name, exists, err := a.Check(context.Background(), "ace")
	if err != nil || name != "ACE" || !exists {
		t.Errorf("Check = %q, %v, %v", name, exists, err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	a := NewAuth(nil, []byte("secret"), nil)
	other := NewAuth(nil, []byte("other"), nil)

	tok, _ := other.generateToken("ACE")
	if _, err := a.ValidateToken(tok); err == nil {
		t.Error("token signed with another secret should fail")
	}

	old := NewAuth(nil, []byte("secret"), nil)
	old.now = func() time.Time { return time.Now().Add(-jwtExpiry - time.Hour) }
	expired, _ := old.generateToken("ACE")
	if _, err := a.ValidateToken(expired); err == nil {
		t.Error("expired token should fail")
	}

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("secret"))
	if _, err := a.ValidateToken(noSub); err == nil {
		t.Error("token without a subject should fail")
	}

	if _, err := a.ValidateToken("garbage"); err == nil {
		t.Error("garbage should fail")
	}
}

func TestSecretPersisted(t *testing.T) {
	settings := memSettings{}
	a := NewAuth(nil, nil, settings)
	if settings["jwt_secret"] == "" {
		t.Fatal("secret not stored")
	}
	tok, _ := a.generateToken("ACE")

	b := NewAuth(nil, nil, settings)
	if pseudo, err := b.ValidateToken(tok); err != nil || pseudo != "ACE" {
		t.Errorf("token from a restarted server = %q, %v", pseudo, err)
	}
}
