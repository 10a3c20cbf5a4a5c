package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mbressan/identity-service/internal/application/account"
	"github.com/mbressan/identity-service/internal/domain"
)

type TokenVerifier interface {
	Verify(token string, purpose account.TokenPurpose) (account.TokenClaims, error)
}

// SubjectResolver is the slice of the identity repository the guard needs.
// In production it is the cache-aside store, so the lookup rides the cache
// and falls through to the durable store transparently.
type SubjectResolver interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Guard authorizes a request from its bearer access token. The chain is
// linear: every branch either rejects or reaches Authorized with the
// resolved user attached to the context.
//
//	no credential        -> 401 token_missing
//	expired credential   -> 401 token_expired
//	invalid credential   -> 401 token_invalid
//	subject missing      -> 402 subject_unknown
//	subject unverified   -> 403 subject_unverified
func Guard(verifier TokenVerifier, users SubjectResolver, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			claims, err := verifier.Verify(raw, account.PurposeAccess)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			u, err := users.FindByID(r.Context(), claims.SubjectID)
			if err != nil {
				if domain.Is(err, "user_not_found") {
					writeErr(w, r, domain.ErrUnknownSubject())
					return
				}
				// durable store down is a hard failure, not a 401
				writeErr(w, r, err)
				return
			}

			if !u.Verified {
				writeErr(w, r, domain.ErrSubjectUnverified())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
