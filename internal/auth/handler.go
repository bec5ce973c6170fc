package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

const TokenHeader = "X-FIT-TOKEN"

type Handler struct {
	accounts *Accounts
}

func NewHandler(accounts *Accounts) *Handler {
	return &Handler{
		accounts: accounts,
	}
}

func readCredentials(r *http.Request) (Credentials, error) {
	var creds Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, fmt.Errorf("unmarshal json params: %w", err)
		}
		return creds, nil
	}
	if err := r.ParseForm(); err != nil {
		return creds, fmt.Errorf("parse form: %w", err)
	}
	return Credentials{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}, nil
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("register: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(ctx, creds)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, store.ErrUsernameTaken):
		http.Error(w, "username already taken", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("register %s: %s", creds.Username, err)
		store.WriteHTTPError(w, "register failed", err)
		return
	}

	log.Printf("new user registered: %s", user.Username)
	pkg.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("login: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := h.accounts.Login(ctx, creds, time.Now())
	switch {
	case errors.Is(err, ErrWrongPassword), errors.Is(err, ErrUnknownUsername):
		log.Tracef("failed login attempt for user: %s", creds.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("login failed for %s: %s", creds.Username, err)
		store.WriteHTTPError(w, "login failed", err)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	authToken := r.Header.Get(TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := h.accounts.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}
