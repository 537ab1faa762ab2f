package dto

import "cartify_backend/internal/feature/auth/usecase"

// RefreshReq carries a refresh token for /auth/refresh and /auth/logout.
type RefreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenRes is returned by login and refresh.
type TokenRes struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    int64   `json:"expiresIn"`
	User         UserRes `json:"user"`
}

func NewTokenRes(t *usecase.Tokens) TokenRes {
	return TokenRes{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		User:         NewUserRes(t.User),
	}
}
