package auth

import "context"

// LoginTestChecker is an in-memory Checker used in handler unit tests.
type LoginTestChecker struct {
	Token2User map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Token2User: make(map[string]string),
	}
}

func (ltc *LoginTestChecker) CheckSession(_ context.Context, token string) (string, error) {
	userID, ok := ltc.Token2User[token]
	if !ok {
		return "", ErrNotLoggedIn
	}
	return userID, nil
}
