package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mbressan/identity-service/internal/domain"
)

// Register creates an unverified user and mails a confirmation link.
// Duplicate mail surfaces from the store as a conflict.
func (s *Service) Register(ctx context.Context, name, mail, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	mail = strings.TrimSpace(strings.ToLower(mail))
	if mail == "" || password == "" {
		return domain.User{}, domain.ErrInvalidField("mail/password", "empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Mail:         mail,
		Name:         name,
		PasswordHash: hash,
		Verified:     false,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	token, err := s.tokens.Issue(created.ID, PurposeMailConfirm, s.mailConfirmTTL)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.mail.PublishConfirmMail(ctx, ConfirmMailEvent{
		UserID: created.ID,
		Mail:   created.Mail,
		Name:   created.Name,
		URL:    s.confirmBaseURL + token,
	}); err != nil {
		return domain.User{}, err
	}

	return created, nil
}

// ConfirmRegistration consumes a mail-confirm token and flips the subject
// to verified. A consumed link, or a subject that vanished, is terminal.
func (s *Service) ConfirmRegistration(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token, PurposeMailConfirm)
	if err != nil {
		return err
	}

	u, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.ErrAlreadyVerifiedOrUnknown()
		}
		return err
	}
	if u.Verified {
		return domain.ErrAlreadyVerifiedOrUnknown()
	}

	u.Verified = true
	_, err = s.users.Update(ctx, u)
	return err
}
