package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/server/memstore"
	"github.com/avc/libco-orders/internal/utils/jwt"
	"github.com/avc/libco-orders/internal/utils/password"
)

const minPasswordLength = 6

// authHandler обслуживает регистрацию и вход
type authHandler struct {
	users      *memstore.Users
	hasher     password.Hasher
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register регистрирует пользователя и сразу выдает токен
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		writeDetail(w, http.StatusBadRequest, "Solicitud mal formada")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeDetail(w, http.StatusBadRequest, "La contraseña es demasiado corta")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	user, err := h.users.Create(req.Login, hash)
	if err != nil {
		if errors.Is(err, memstore.ErrUserExists) {
			writeDetail(w, http.StatusConflict, "El usuario ya existe")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	h.issueToken(w, user.ID)
}

// Login аутентифицирует пользователя
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		writeDetail(w, http.StatusBadRequest, "Solicitud mal formada")
		return
	}

	user, err := h.users.GetByLogin(req.Login)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	if err := h.hasher.Check(user.PasswordHash, req.Password); err != nil {
		writeDetail(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	h.issueToken(w, user.ID)
}

func (h *authHandler) issueToken(w http.ResponseWriter, userID int64) {
	token, err := h.jwtManager.Generate(userID)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
