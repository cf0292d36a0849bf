package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour // 7 days
	pinLen           = 4
	minPseudoLen     = 3
	maxPseudoLen     = 12
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

var (
	ErrNameTaken        = errors.New("pseudo already taken")
	ErrBadCredentials   = errors.New("wrong pseudo or PIN")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTooManyAttempts  = errors.New("too many login attempts, try again later")
)

// SettingStore persists small key/value settings such as the token secret
type SettingStore interface {
	GetSetting(key string) string
	SetSetting(key, value string) error
}

// Auth validates credentials against a StatStore and issues session tokens
type Auth struct {
	store     StatStore
	jwtSecret []byte

	// Rate limiting for login attempts (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
	now     func() time.Time
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates an Auth. An empty secret is loaded from, or generated into, settings.
func NewAuth(store StatStore, secret []byte, settings SettingStore) *Auth {
	if len(secret) == 0 {
		secret = loadOrCreateSecret(settings)
	}
	return &Auth{
		store:     store,
		jwtSecret: secret,
		rateMap:   make(map[string]*rateEntry),
		now:       time.Now,
	}
}

// loadOrCreateSecret loads the JWT secret from settings, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(settings SettingStore) []byte {
	if settings != nil {
		if h := settings.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if settings != nil {
		if err := settings.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("auth: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// ValidatePseudo trims and upper-cases a pseudo and checks its length
func ValidatePseudo(pseudo string) (string, error) {
	pseudo = strings.ToUpper(strings.TrimSpace(pseudo))
	if n := utf8.RuneCountInString(pseudo); n < minPseudoLen || n > maxPseudoLen {
		return "", fmt.Errorf("pseudo must be %d-%d characters", minPseudoLen, maxPseudoLen)
	}
	return pseudo, nil
}

// ValidatePin checks a PIN is exactly four digits
func ValidatePin(pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if len(pin) != pinLen {
		return "", fmt.Errorf("PIN must be %d digits", pinLen)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("PIN must be %d digits", pinLen)
		}
	}
	return pin, nil
}

// Check normalises a pseudo and reports whether it has an account
func (a *Auth) Check(ctx context.Context, pseudo string) (string, bool, error) {
	pseudo, err := ValidatePseudo(pseudo)
	if err != nil {
		return "", false, err
	}
	exists, err := a.store.AccountExists(ctx, pseudo)
	if err != nil {
		log.Printf("auth: exists %s: %v", pseudo, err)
		return pseudo, false, fmt.Errorf("database error")
	}
	return pseudo, exists, nil
}

// Register creates a new account and logs it in
func (a *Auth) Register(ctx context.Context, pseudo, pin, confirm string) (*Profile, string, error) {
	pseudo, err := ValidatePseudo(pseudo)
	if err != nil {
		return nil, "", err
	}
	if pin, err = ValidatePin(pin); err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(confirm) != pin {
		return nil, "", fmt.Errorf("PINs do not match")
	}

	created, err := a.store.CreateAccount(ctx, pseudo, pin)
	if err != nil {
		log.Printf("auth: create %s: %v", pseudo, err)
		return nil, "", fmt.Errorf("failed to create account")
	}
	if !created {
		return nil, "", ErrNameTaken
	}

	token, err := a.generateToken(pseudo)
	if err != nil {
		return nil, "", fmt.Errorf("internal error")
	}
	return &Profile{Pseudo: pseudo}, token, nil
}

// Login authenticates a pseudo and PIN and returns a JWT
func (a *Auth) Login(ctx context.Context, pseudo, pin, ip string) (*Profile, string, error) {
	if !a.checkRate(ip) {
		return nil, "", ErrTooManyAttempts
	}
	pseudo, err := ValidatePseudo(pseudo)
	if err != nil {
		return nil, "", err
	}
	if pin, err = ValidatePin(pin); err != nil {
		return nil, "", err
	}

	profile, err := a.store.Login(ctx, pseudo, pin)
	if errors.Is(err, ErrBadCredentials) {
		return nil, "", ErrBadCredentials
	}
	if err != nil {
		log.Printf("auth: login %s: %v", pseudo, err)
		return nil, "", fmt.Errorf("database error")
	}

	token, err := a.generateToken(profile.Pseudo)
	if err != nil {
		return nil, "", fmt.Errorf("internal error")
	}
	return profile, token, nil
}

// ValidateToken validates a JWT and returns the pseudo it was issued to
func (a *Auth) ValidateToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	pseudo, ok := claims["sub"].(string)
	if !ok || pseudo == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return pseudo, nil
}

func (a *Auth) generateToken(pseudo string) (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub": pseudo,
		"exp": now.Add(jwtExpiry).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := a.now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}
