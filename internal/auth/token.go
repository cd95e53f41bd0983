// Package auth issues and verifies HMAC-SHA256 signed session tokens. A
// token binds a subject to an expiry; verification is constant-time on the
// signature.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformed = errors.New("auth: malformed token")
	ErrSignature = errors.New("auth: signature mismatch")
	ErrExpired   = errors.New("auth: token expired")
)

// Signer mints and checks tokens with one shared secret.
type Signer struct {
	Secret []byte
	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue returns a token for subject valid for ttl from now.
func (s *Signer) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("auth: empty secret")
	}
	if subject == "" || strings.ContainsRune(subject, '\n') {
		return "", time.Time{}, fmt.Errorf("auth: invalid subject %q", subject)
	}
	exp := s.now().Add(ttl).Truncate(time.Second)
	payload := subject + "\n" + strconv.FormatInt(exp.Unix(), 10)
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(payload)) + "." + enc.EncodeToString(s.sign(payload)), exp, nil
}

// Verify checks signature and expiry and returns the token's subject.
func (s *Signer) Verify(token string) (string, error) {
	payloadB64, sigB64, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrMalformed
	}
	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(payloadB64)
	if err != nil {
		return "", ErrMalformed
	}
	sig, err := enc.DecodeString(sigB64)
	if err != nil {
		return "", ErrMalformed
	}
	if !hmac.Equal(sig, s.sign(string(payload))) {
		return "", ErrSignature
	}
	subject, expStr, ok := strings.Cut(string(payload), "\n")
	if !ok || subject == "" {
		return "", ErrMalformed
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", ErrMalformed
	}
	if s.now().Unix() > exp {
		return "", ErrExpired
	}
	return subject, nil
}

func (s *Signer) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
