package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/pkg/cryptox"
	"github.com/aussiebroadwan/todolist/pkg/idx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

// DefaultSessionTTL matches a two week browser login.
const DefaultSessionTTL = 14 * 24 * time.Hour

const (
	minPasswordLength = 8
	maxUsernameLength = 150
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "qwerty123": {},
	"qwertyuiop": {}, "12345678": {}, "123456789": {}, "1234567890": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "abc12345": {}, "letmein1": {},
	"trustno1": {}, "superman": {}, "11111111": {}, "00000000": {},
}

type SignUpInput struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	Password       string
	PasswordRepeat string
}

// ProfileUpdate holds profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

type AccountService struct {
	Store      store.Store
	SessionTTL time.Duration
	Now        func() time.Time
}

// SignUp creates an account after checking uniqueness and password strength.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	log := slogx.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	verr := &ValidationError{}
	s.checkUsername(ctx, verr, in.Username, "")
	s.checkEmail(ctx, verr, in.Email, "")

	if in.Password == "" {
		verr.Add("password", msgRequired)
	} else {
		for _, msg := range passwordProblems(in.Password, in.Username) {
			verr.Add("password", msg)
		}
	}
	if in.PasswordRepeat != in.Password {
		verr.Add("password_repeat", "Passwords do not match.")
	}
	if err := verr.Err(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := nowUTC(s.Now)
	u := domain.User{
		ID:           idx.New(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, invalid("username", "A user with that username already exists.")
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user signed up", slog.String("user_id", u.ID))
	return u, nil
}

// Authenticate checks a username/password pair.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			slogx.FromContext(ctx).Error("stored password hash unreadable",
				slog.String("user_id", u.ID),
				slog.Any("error", err),
			)
		}
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a session. The returned token is the cookie
// value; only its fingerprint is stored.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.User, string, time.Time, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		log.Warn("login failed", slog.String("username", username))
		return domain.User{}, "", time.Time{}, err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.User{}, "", time.Time{}, err
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := nowUTC(s.Now)
	sess := domain.Session{
		ID:        idx.New(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		log.Error("failed to create session", slog.Any("error", err))
		return domain.User{}, "", time.Time{}, err
	}

	log.Info("user logged in", slog.String("user_id", u.ID))
	return u, token, sess.ExpiresAt, nil
}

// Logout drops the session behind token. Unknown tokens are not an error.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.Store.Sessions().DeleteSession(ctx, cryptox.FingerprintToken(token))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// ResolveSession implements httpx.SessionResolver.
func (s *AccountService) ResolveSession(ctx context.Context, token string) (string, error) {
	sess, err := s.Store.Sessions().GetActiveSession(ctx, cryptox.FingerprintToken(token), nowUTC(s.Now))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return sess.UserID, nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

// UpdateProfile applies in. With partial false the username is required.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate, partial bool) (domain.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	verr := &ValidationError{}
	if in.Username == nil && !partial {
		verr.Add("username", msgRequired)
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
		s.checkUsername(ctx, verr, u.Username, u.ID)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
		s.checkEmail(ctx, verr, u.Email, u.ID)
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if err := verr.Err(); err != nil {
		return domain.User{}, err
	}

	u.UpdatedAt = nowUTC(s.Now)
	if err := s.Store.Users().UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, invalid("username", "A user with that username already exists.")
		}
		return domain.User{}, err
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	log := slogx.FromContext(ctx)

	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	verr := &ValidationError{}
	if oldPassword == "" {
		verr.Add("old_password", msgRequired)
	}
	if newPassword == "" {
		verr.Add("new_password", msgRequired)
	}
	if err := verr.Err(); err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(oldPassword, u.PasswordHash); err != nil {
		log.Warn("password change with wrong current password", slog.String("user_id", u.ID))
		return ErrInvalidCredentials
	}

	for _, msg := range passwordProblems(newPassword, u.Username) {
		verr.Add("new_password", msg)
	}
	if err := verr.Err(); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash, nowUTC(s.Now)); err != nil {
		return err
	}

	log.Info("password changed", slog.String("user_id", u.ID))
	return nil
}

func (s *AccountService) checkUsername(ctx context.Context, verr *ValidationError, username, exceptID string) {
	switch {
	case username == "":
		verr.Add("username", msgBlank)
		return
	case utf8.RuneCountInString(username) > maxUsernameLength:
		verr.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", maxUsernameLength))
		return
	case strings.IndexFunc(username, unicode.IsSpace) >= 0:
		verr.Add("username", "Enter a valid username without spaces.")
		return
	}

	taken, err := s.Store.Users().UsernameTaken(ctx, username, exceptID)
	if err != nil {
		slogx.FromContext(ctx).Error("username lookup failed", slog.Any("error", err))
		verr.Add("username", "Could not check username.")
		return
	}
	if taken {
		verr.Add("username", "A user with that username already exists.")
	}
}

func (s *AccountService) checkEmail(ctx context.Context, verr *ValidationError, email, exceptID string) {
	if email == "" {
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		verr.Add("email", "Enter a valid email address.")
		return
	}

	taken, err := s.Store.Users().EmailTaken(ctx, email, exceptID)
	if err != nil {
		slogx.FromContext(ctx).Error("email lookup failed", slog.Any("error", err))
		verr.Add("email", "Could not check email.")
		return
	}
	if taken {
		verr.Add("email", "A user with that email already exists.")
	}
}

// passwordProblems lists every reason password is too weak.
func passwordProblems(password, username string) []string {
	var out []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		out = append(out, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		out = append(out, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		out = append(out, "This password is too common.")
	}
	if username != "" && strings.EqualFold(password, username) {
		out = append(out, "The password is too similar to the username.")
	}
	return out
}
