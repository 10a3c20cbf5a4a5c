package dto

import (
	"github.com/mbressan/identity-service/internal/application/account"
	"github.com/mbressan/identity-service/internal/domain"
)

// UserView is the public projection of a user. The password hash never
// crosses the transport boundary.
type UserView struct {
	ID       string `json:"id"`
	Mail     string `json:"mail"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:       u.ID,
		Mail:     u.Mail,
		Name:     u.Name,
		Verified: u.Verified,
	}
}

// TokensData carries a full session pair, returned by login.
type TokensData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func NewTokensData(t account.Tokens) TokensData {
	return TokensData{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

// AccessTokenData carries a single refreshed access token.
type AccessTokenData struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// ResetTokenData echoes a validated reset token back to the caller so the
// form posting the new password can reuse it.
type ResetTokenData struct {
	Token string `json:"token"`
}

// MessageData is a plain acknowledgement body.
type MessageData struct {
	Message string `json:"message"`
}
