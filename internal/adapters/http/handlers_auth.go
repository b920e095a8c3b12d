package web

import (
	"errors"
	"log/slog"
	"net/http"

	"gymroster/internal/adapters/http/middleware"
	"gymroster/internal/application/orchestrators"
	"gymroster/internal/domain/account"
	"gymroster/internal/domain/audit"
)

type credentialsJSON struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

// handleSignup handles POST /api/auth/signup
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if !AllowSignup {
		middleware.WriteJSONError(w, http.StatusForbidden, "signup is disabled")
		return
	}
	var in credentialsJSON
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    in.Email,
		Password: in.Password,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore})
	switch {
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		middleware.WriteJSONError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, account.ErrInvalidEmail), errors.Is(err, account.ErrEmptyEmail),
		errors.Is(err, account.ErrEmailTooLong), errors.Is(err, account.ErrEmptyPassword),
		errors.Is(err, account.ErrPasswordTooShort):
		badRequest(w, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	saveAudit(r, audit.NewEvent(acct.ID, acct.Email, audit.CategoryAccount, audit.ActionCreate, timeNow()).WithResource(acct.ID))
	writeJSON(w, http.StatusCreated, userJSON{ID: acct.ID, Email: acct.Email})
}

// handleLogin handles POST /api/auth/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentialsJSON
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    in.Email,
		Password: in.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore, Now: timeNow})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		middleware.WriteJSONError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, orchestrators.ErrAccountLocked):
		middleware.WriteJSONError(w, http.StatusLocked, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	saveAudit(r, audit.NewEvent(result.AccountID, result.Email, audit.CategoryAccount, audit.ActionLogin, timeNow()))
	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userJSON{ID: result.AccountID, Email: result.Email},
	})
}

// handleLogout handles POST /api/auth/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		sessions.Delete(token)
		slog.Info("auth_event", "event", "logout")
	}
	w.WriteHeader(http.StatusNoContent)
}
