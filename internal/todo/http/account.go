package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

// AccountHandler serves signup, login, profile and password endpoints.
type AccountHandler struct {
	AccountService *service.AccountService
	TokenService   *service.TokenService
	CookieSecure   bool
}

// HandleSignUp handles POST /v1/core/signup
//
//	@Summary		Sign up
//	@Description	Creates an account. Usernames and non-empty emails are unique; weak passwords are rejected.
//	@Tags			Core
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.SignUpRequest	true	"New account"
//	@Success		201		{object}	todosdk.Profile
//	@Failure		400		{object}	todosdk.ErrorResponse	"error, error_description, fields"
//	@Failure		429		{object}	todosdk.ErrorResponse
//	@Router			/v1/core/signup [post].
func (h *AccountHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req todosdk.SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.AccountService.SignUp(r.Context(), service.SignUpInput{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Password:       req.Password,
		PasswordRepeat: req.PasswordRepeat,
	})
	if err != nil {
		writeServiceError(w, r, err, "sign up")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProfile(u))
}

// HandleLogin handles POST /v1/core/login
//
//	@Summary		Log in
//	@Description	Checks the credentials and sets the sessionid cookie.
//	@Tags			Core
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	todosdk.Profile
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		429		{object}	todosdk.ErrorResponse
//	@Router			/v1/core/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req todosdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := requireCredentials(req.Username, req.Password); err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	u, token, expires, err := h.AccountService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, expires))
	httpx.WriteJSON(w, http.StatusOK, toProfile(u))
}

// HandleToken handles POST /v1/core/token
//
//	@Summary		Issue access token
//	@Description	Exchanges credentials for a short lived EdDSA signed JWT accepted as a Bearer token.
//	@Tags			Core
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.TokenRequest	true	"Credentials"
//	@Success		200		{object}	todosdk.TokenResponse
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		429		{object}	todosdk.ErrorResponse
//	@Router			/v1/core/token [post].
func (h *AccountHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req todosdk.TokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := requireCredentials(req.Username, req.Password); err != nil {
		writeServiceError(w, r, err, "issue token")
		return
	}

	tok, err := h.TokenService.IssueAccessToken(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "issue token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, todosdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(tok.ExpiresIn / time.Second),
	})
}

// HandleGetProfile handles GET /v1/core/profile
//
//	@Summary	Get profile
//	@Tags		Core
//	@Produce	json
//	@Security	BearerAuth
//	@Security	SessionAuth
//	@Success	200	{object}	todosdk.Profile
//	@Failure	401	{object}	todosdk.ErrorResponse
//	@Router		/v1/core/profile [get].
func (h *AccountHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.AccountService.GetProfile(r.Context(), httpx.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfile(u))
}

// HandleUpdateProfile handles PUT and PATCH /v1/core/profile
//
//	@Summary		Update profile
//	@Description	PUT requires username; PATCH changes only the fields sent.
//	@Tags			Core
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.ProfileRequest	true	"Profile fields"
//	@Success		200		{object}	todosdk.Profile
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Router			/v1/core/profile [put]
//	@Router			/v1/core/profile [patch].
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req todosdk.ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.AccountService.UpdateProfile(r.Context(), httpx.UserID(r.Context()), service.ProfileUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, isPartial(r))
	if err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfile(u))
}

// HandleLogout handles DELETE /v1/core/profile
//
//	@Summary		Log out
//	@Description	Ends the current session and clears the cookie. Accounts are never deleted.
//	@Tags			Core
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Success		204	"Logged out"
//	@Failure		401	{object}	todosdk.ErrorResponse
//	@Router			/v1/core/profile [delete].
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(todosdk.SessionCookie); err == nil {
		if err := h.AccountService.Logout(r.Context(), c.Value); err != nil {
			writeServiceError(w, r, err, "log out")
			return
		}
	}

	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	slogx.FromContext(r.Context()).Info("user logged out")
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdatePassword handles PUT /v1/core/update_password
//
//	@Summary		Change password
//	@Description	Replaces the password after checking the current one. Existing sessions stay valid.
//	@Tags			Core
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.UpdatePasswordRequest	true	"Old and new password"
//	@Success		200		{object}	object
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse	"not authenticated, or current password is incorrect"
//	@Router			/v1/core/update_password [put].
func (h *AccountHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req todosdk.UpdatePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AccountService.ChangePassword(r.Context(), httpx.UserID(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err, "change password")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *AccountHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     todosdk.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func requireCredentials(username, password string) error {
	verr := &service.ValidationError{}
	if strings.TrimSpace(username) == "" {
		verr.Add("username", "This field is required.")
	}
	if password == "" {
		verr.Add("password", "This field is required.")
	}
	return verr.Err()
}
