package rest

import (
	"context"
	"net/http"
)

// credentials представляет тело запросов регистрации и входа
type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// tokenResponse представляет ответ с выданным токеном
type tokenResponse struct {
	Token string `json:"token"`
}

// Register регистрирует пользователя и возвращает bearer-токен
func (c *Client) Register(ctx context.Context, login, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, c.writes, http.MethodPost, "/api/auth/register", credentials{Login: login, Password: password}, "", &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login аутентифицирует пользователя и возвращает bearer-токен
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, c.writes, http.MethodPost, "/api/auth/login", credentials{Login: login, Password: password}, "", &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}
