package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mbressan/identity-service/internal/application/account"
	"github.com/mbressan/identity-service/internal/domain"
)

// TokenService issues and verifies purpose-scoped JWTs. Every purpose signs
// with its own secret, so a mail-confirm secret can never validate an access
// token and vice versa. Verification is a pure function of the token and the
// clock; nothing is stored server-side.
type TokenService struct {
	secrets map[account.TokenPurpose][]byte
	issuer  string
	now     func() time.Time
}

type Secrets struct {
	MailConfirm string
	Access      string
	Refresh     string
}

func NewTokenService(sec Secrets, issuer string) *TokenService {
	return &TokenService{
		secrets: map[account.TokenPurpose][]byte{
			account.PurposeMailConfirm: []byte(sec.MailConfirm),
			account.PurposeAccess:      []byte(sec.Access),
			account.PurposeRefresh:     []byte(sec.Refresh),
		},
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Expiry boundaries are exact, so tests
// need a controllable clock.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

type purposeClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (s *TokenService) Issue(subjectID string, purpose account.TokenPurpose, ttl time.Duration) (string, error) {
	secret, ok := s.secrets[purpose]
	if !ok || len(secret) == 0 {
		return "", domain.ErrTokenSignFailed(fmt.Errorf("no signing secret for purpose %q", purpose))
	}
	if strings.TrimSpace(subjectID) == "" {
		return "", domain.ErrTokenSignFailed(errors.New("empty subject id"))
	}

	now := s.now()
	claims := purposeClaims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	// ttl <= 0 means session-bound: no exp claim at all.
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *TokenService) Verify(token string, purpose account.TokenPurpose) (account.TokenClaims, error) {
	secret, ok := s.secrets[purpose]
	if !ok || len(secret) == 0 {
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if strings.TrimSpace(token) == "" {
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}

	parsed, err := jwt.ParseWithClaims(token, &purposeClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return account.TokenClaims{}, domain.ErrTokenExpired()
		}
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*purposeClaims)
	if !ok || !parsed.Valid {
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}

	// A token minted for another purpose fails even when, somehow, the
	// signature checks out (e.g. two purposes configured with equal secrets).
	if claims.Purpose != string(purpose) {
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}

	out := account.TokenClaims{
		SubjectID: claims.Subject,
		Purpose:   purpose,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
