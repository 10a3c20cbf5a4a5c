package account

import "time"

// Service orchestrates the account lifecycle: registration, mail
// confirmation, login, password reset and token refresh.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenService
	mail   MailPublisher

	accessTTL      time.Duration
	refreshTTL     time.Duration
	mailConfirmTTL time.Duration
	resetTTL       time.Duration

	// URLs the mailer turns into clickable links; the token is appended.
	confirmBaseURL string
	resetBaseURL   string
}

type Config struct {
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	MailConfirmTTL   time.Duration
	PasswordResetTTL time.Duration
	ConfirmBaseURL   string
	ResetBaseURL     string
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenService, mail MailPublisher, cfg Config) *Service {
	confirmTTL := cfg.MailConfirmTTL
	if confirmTTL <= 0 {
		confirmTTL = 15 * time.Minute
	}
	resetTTL := cfg.PasswordResetTTL
	if resetTTL <= 0 {
		resetTTL = 5 * time.Minute
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		mail:   mail,

		accessTTL:      accessTTL,
		refreshTTL:     cfg.RefreshTokenTTL,
		mailConfirmTTL: confirmTTL,
		resetTTL:       resetTTL,

		confirmBaseURL: cfg.ConfirmBaseURL,
		resetBaseURL:   cfg.ResetBaseURL,
	}
}

// AccessTokenTTL reports the configured access token lifetime.
func (s *Service) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// Tokens is the session pair handed out on login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "Bearer"
	ExpiresIn    int64  // access token lifetime, seconds
}
