package account

import (
	"context"
	"strings"

	"github.com/mbressan/identity-service/internal/domain"
)

// ForgotPassword mails a short-lived reset link. Only existing, verified
// accounts qualify; the token is mail-confirm class with the reset TTL.
func (s *Service) ForgotPassword(ctx context.Context, mail string) error {
	mail = strings.TrimSpace(strings.ToLower(mail))
	if mail == "" {
		return domain.ErrMissingField("mail")
	}

	u, err := s.users.FindByMail(ctx, mail)
	if err != nil {
		return err
	}
	if !u.Verified {
		return domain.ErrSubjectUnverified()
	}

	token, err := s.tokens.Issue(u.ID, PurposeMailConfirm, s.resetTTL)
	if err != nil {
		return err
	}

	return s.mail.PublishResetMail(ctx, ResetMailEvent{
		UserID: u.ID,
		Mail:   u.Mail,
		Name:   u.Name,
		URL:    s.resetBaseURL + token,
	})
}

// ValidateReset checks a reset link before the password form is shown.
func (s *Service) ValidateReset(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token, PurposeMailConfirm)
	if err != nil {
		return err
	}

	u, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		return err
	}
	if !u.Verified {
		return domain.ErrSubjectUnverified()
	}
	return nil
}

// ResetPassword accepts the new password from a confirmed reset link and
// persists it via a full-record save.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return domain.ErrMissingField("password")
	}

	claims, err := s.tokens.Verify(token, PurposeMailConfirm)
	if err != nil {
		return err
	}

	u, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		return err
	}
	if !u.Verified {
		return domain.ErrSubjectUnverified()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	u.PasswordHash = hash
	_, err = s.users.Update(ctx, u)
	return err
}
