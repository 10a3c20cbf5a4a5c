package account

import (
	"context"

	"github.com/mbressan/identity-service/internal/domain"
)

// Refresh exchanges a valid refresh token for a fresh access token bound to
// the same subject. The repository is not consulted: the refresh token is a
// stateless capability and expiry is its only deactivation mechanism.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrRefreshTokenInvalid()
	}

	claims, err := s.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		if domain.Is(err, "token_expired") {
			return "", domain.ErrRefreshTokenExpired()
		}
		return "", domain.ErrRefreshTokenInvalid()
	}

	access, err := s.tokens.Issue(claims.SubjectID, PurposeAccess, s.accessTTL)
	if err != nil {
		return "", err
	}
	return access, nil
}
