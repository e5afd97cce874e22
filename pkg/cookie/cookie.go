package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

// MinSecretLength is the shortest secret accepted by WithSecret.
const MinSecretLength = 32

// Errors.
var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadValue  = errors.New("cookie: malformed value")
	ErrBadSig    = errors.New("cookie: invalid signature")
	ErrDecrypt   = errors.New("cookie: decryption failed")
)

// Manager reads and writes binary cookie values. Every value is base64url
// encoded, so arbitrary bytes such as JSON survive the cookie syntax.
type Manager struct {
	secret   []byte // nil = plain only
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the secret for signing and encryption.
// Secrets shorter than MinSecretLength are ignored; use ValidateSecret to
// reject them up front.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if ValidateSecret(secret) == nil {
			m.secret = []byte(secret)
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path. Default: "/".
func WithPath(path string) Option {
	return func(m *Manager) {
		m.path = path
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag. Default: true.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute. Default: Lax.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// ValidateSecret reports ErrBadSecret for secrets that are too short.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return ErrBadSecret
	}
	return nil
}

// RandomSecret returns a fresh secret for deployments without a configured
// one. Cookies written with it do not survive a restart.
func RandomSecret() string {
	b := make([]byte, MinSecretLength)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// HasSecret reports whether signed and encrypted cookies are available.
func (m *Manager) HasSecret() bool {
	return m.secret != nil
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) ([]byte, error) {
	raw, err := m.raw(r, name)
	if err != nil {
		return nil, err
	}
	value, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrBadValue
	}
	return value, nil
}

// Set sets a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name string, value []byte, maxAge int) {
	http.SetCookie(w, m.cookie(name, base64.RawURLEncoding.EncodeToString(value), maxAge))
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// GetSigned returns the value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) ([]byte, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}
	raw, err := m.raw(r, name)
	if err != nil {
		return nil, err
	}

	payload, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrBadSig
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(mac, m.sign(value)) {
		return nil, ErrBadSig
	}
	return value, nil
}

// SetSigned sets a cookie formatted as base64(value).base64(hmac-sha256).
func (m *Manager) SetSigned(w http.ResponseWriter, name string, value []byte, maxAge int) error {
	if m.secret == nil {
		return ErrNoSecret
	}
	encoded := base64.RawURLEncoding.EncodeToString(value) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign(value))
	http.SetCookie(w, m.cookie(name, encoded, maxAge))
	return nil
}

// GetEncrypted returns the value of a cookie written by SetEncrypted.
func (m *Manager) GetEncrypted(r *http.Request, name string) ([]byte, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}
	raw, err := m.raw(r, name)
	if err != nil {
		return nil, err
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrDecrypt
	}
	aead, err := m.aead()
	if err != nil {
		return nil, err
	}
	if len(data) < aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	value, err := aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return nil, ErrDecrypt
	}
	return value, nil
}

// SetEncrypted sets an AES-256-GCM encrypted cookie. The cookie name is
// authenticated too, so a value cannot be replayed under another name.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name string, value []byte, maxAge int) error {
	if m.secret == nil {
		return ErrNoSecret
	}
	aead, err := m.aead()
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	sealed := aead.Seal(nonce, nonce, value, []byte(name))
	http.SetCookie(w, m.cookie(name, base64.RawURLEncoding.EncodeToString(sealed), maxAge))
	return nil
}

func (m *Manager) raw(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

func (m *Manager) sign(value []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write(value)
	return h.Sum(nil)
}

// aead derives a 32-byte key from the secret.
func (m *Manager) aead() (cipher.AEAD, error) {
	key := sha256.Sum256(m.secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
