package account

import (
	"context"
	"strings"

	"github.com/mbressan/identity-service/internal/domain"
)

// Login authenticates a verified user and issues the access/refresh pair.
// Failure causes stay distinct: unknown mail, unverified account and bad
// password each map to their own error so the API can answer precisely.
func (s *Service) Login(ctx context.Context, mail, password string) (domain.User, Tokens, error) {
	mail = strings.TrimSpace(strings.ToLower(mail))
	if mail == "" || password == "" {
		return domain.User{}, Tokens{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.FindByMail(ctx, mail)
	if err != nil {
		return domain.User{}, Tokens{}, err
	}
	if !u.Verified {
		return domain.User{}, Tokens{}, domain.ErrSubjectUnverified()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.User{}, Tokens{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueSession(u.ID)
	if err != nil {
		return domain.User{}, Tokens{}, err
	}
	return u, toks, nil
}

func (s *Service) issueSession(subjectID string) (Tokens, error) {
	access, err := s.tokens.Issue(subjectID, PurposeAccess, s.accessTTL)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.tokens.Issue(subjectID, PurposeRefresh, s.refreshTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}
