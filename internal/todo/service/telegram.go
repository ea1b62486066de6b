package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/internal/todo/store"
	"github.com/aussiebroadwan/todolist/pkg/cryptox"
	"github.com/aussiebroadwan/todolist/pkg/idx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

// DefaultCodeTTL is how long a chat verification code stays usable.
const DefaultCodeTTL = time.Hour

// Messenger is the messaging provider as seen by the bot.
type Messenger interface {
	FetchUpdates(ctx context.Context, offset, timeoutSeconds int) ([]domain.InboundMessage, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramService ties Telegram chats to accounts.
type TelegramService struct {
	Store   store.Store
	CodeTTL time.Duration
	Now     func() time.Time

	// Messenger, when set, is told about successful verifications.
	Messenger Messenger
}

// EnsureLink returns the link for chatID, creating it on first contact.
func (s *TelegramService) EnsureLink(ctx context.Context, chatID int64) (domain.TelegramLink, error) {
	l, err := s.Store.TelegramLinks().GetLinkByChatID(ctx, chatID)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.TelegramLink{}, err
	}

	now := nowUTC(s.Now)
	l = domain.TelegramLink{ID: idx.New(), ChatID: chatID, CreatedAt: now, UpdatedAt: now}
	if err := s.Store.TelegramLinks().CreateLink(ctx, l); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.Store.TelegramLinks().GetLinkByChatID(ctx, chatID)
		}
		return domain.TelegramLink{}, err
	}

	slogx.FromContext(ctx).Info("telegram chat registered", slog.Int64("chat_id", chatID))
	return l, nil
}

// IssueVerificationCode replaces any unused code of the chat with a new one.
func (s *TelegramService) IssueVerificationCode(ctx context.Context, chatID int64) (string, error) {
	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	now := nowUTC(s.Now)
	if err := s.Store.TelegramLinks().SetVerificationCode(ctx, chatID, code, now.Add(ttl), now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("store verification code: %w", err)
	}
	return code, nil
}

// ConfirmCode attaches actorID to the chat holding code. The first caller
// wins; later ones and stale codes get ErrNotFound.
func (s *TelegramService) ConfirmCode(ctx context.Context, actorID, code string) (domain.TelegramLink, error) {
	log := slogx.FromContext(ctx)

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.TelegramLink{}, invalid("verification_code", msgRequired)
	}

	now := nowUTC(s.Now)
	var linked domain.TelegramLink
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		l, err := tx.TelegramLinks().GetLinkByCode(ctx, code, now)
		if err != nil {
			return err
		}
		if err := tx.TelegramLinks().AttachUser(ctx, l.ID, code, actorID, now); err != nil {
			return err
		}
		linked, err = tx.TelegramLinks().GetLinkByChatID(ctx, l.ChatID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("verification code rejected")
			return domain.TelegramLink{}, ErrNotFound
		}
		log.Error("failed to confirm verification code", slog.Any("error", err))
		return domain.TelegramLink{}, err
	}

	log.Info("telegram chat linked", slog.Int64("chat_id", linked.ChatID), slog.String("user_id", actorID))

	if s.Messenger != nil {
		if err := s.Messenger.SendMessage(ctx, linked.ChatID, "Verification successful. This chat is now linked to your account."); err != nil {
			log.Error("failed to send verification confirmation",
				slog.Int64("chat_id", linked.ChatID),
				slog.Any("error", err),
			)
		}
	}
	return linked, nil
}

// LinkForAccount returns the chat most recently linked to actorID.
func (s *TelegramService) LinkForAccount(ctx context.Context, actorID string) (domain.TelegramLink, error) {
	l, err := s.Store.TelegramLinks().GetLinkByUserID(ctx, actorID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TelegramLink{}, ErrNotFound
	}
	return l, err
}
