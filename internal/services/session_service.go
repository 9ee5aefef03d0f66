package services

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrNoRefreshToken = errors.New("refresh token missing")
	ErrBadCookie      = errors.New("refresh cookie invalid")
)

// refreshTokenKeys: variasi nama field refresh token dari backend.
var refreshTokenKeys = []string{"refreshToken", "refresh_token"}

// SessionService menyimpan refresh token backend di cookie HttpOnly terenkripsi,
// jadi JavaScript browser hanya pernah melihat access token.
type SessionService struct {
	CookieName string
	CookiePath string
	Domain     string
	Secure     bool
	MaxAge     time.Duration

	aead cipher.AEAD
}

type SessionConfig struct {
	Secret     string
	CookieName string
	Domain     string
	Secure     bool
	MaxAge     time.Duration
}

func NewSessionService(cfg SessionConfig) (*SessionService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("cookie secret kosong")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(cfg.Secret), nil, []byte("travelweb refresh cookie v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cookie cipher: %w", err)
	}

	name := cfg.CookieName
	if name == "" {
		name = "refresh_token"
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &SessionService{
		CookieName: name,
		CookiePath: "/api/auth",
		Domain:     cfg.Domain,
		Secure:     cfg.Secure,
		MaxAge:     maxAge,
		aead:       aead,
	}, nil
}

// Seal mengenkripsi token untuk nilai cookie.
func (s *SessionService) Seal(token string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, []byte(token), []byte(s.CookieName))
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open mendekripsi nilai cookie hasil Seal.
func (s *SessionService) Open(value string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return "", ErrBadCookie
	}
	n := s.aead.NonceSize()
	if len(raw) <= n {
		return "", ErrBadCookie
	}
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], []byte(s.CookieName))
	if err != nil {
		return "", ErrBadCookie
	}
	return string(plain), nil
}

// RefreshToken membaca & membuka cookie refresh dari r.
func (s *SessionService) RefreshToken(r *http.Request) (string, error) {
	c, err := r.Cookie(s.CookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", ErrNoRefreshToken
	}
	return s.Open(c.Value)
}

// Cookie membuat cookie refresh berisi token.
func (s *SessionService) Cookie(token string) (*http.Cookie, error) {
	v, err := s.Seal(token)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     s.CookieName,
		Value:    v,
		Path:     s.CookiePath,
		Domain:   s.Domain,
		MaxAge:   int(s.MaxAge.Seconds()),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie menghapus cookie refresh (Max-Age negatif).
func (s *SessionService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     s.CookiePath,
		Domain:   s.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExtractRefreshToken mengambil refresh token dari body auth backend (level atas,
// "data" atau "tokens") dan mengembalikan body tanpa token itu. Body yang bukan
// objek JSON atau tanpa token dikembalikan apa adanya dengan token kosong.
func ExtractRefreshToken(body []byte) (string, []byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", body, nil
	}

	token, changed := takeToken(doc)
	for _, nested := range []string{"data", "tokens"} {
		raw, ok := doc[nested]
		if !ok {
			continue
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			continue
		}
		t, ch := takeToken(inner)
		if !ch {
			continue
		}
		if token == "" {
			token = t
		}
		b, err := json.Marshal(inner)
		if err != nil {
			return "", body, err
		}
		doc[nested] = b
		changed = true
	}

	if !changed {
		return "", body, nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", body, err
	}
	return token, out, nil
}

func takeToken(doc map[string]json.RawMessage) (string, bool) {
	token := ""
	changed := false
	for _, k := range refreshTokenKeys {
		raw, ok := doc[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && token == "" {
			token = strings.TrimSpace(s)
		}
		delete(doc, k)
		changed = true
	}
	return token, changed
}

// RefreshRequestBody: payload yang diharapkan backend di /auth/refresh & /auth/logout.
func RefreshRequestBody(token string) []byte {
	b, _ := json.Marshal(map[string]string{"refreshToken": token})
	return b
}
