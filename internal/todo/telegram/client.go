// Package telegram is the messaging provider client used by the bot worker.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

// DefaultEndpoint is the Bot API URL template, token then method.
const DefaultEndpoint = tgbotapi.APIEndpoint

// TransportError is a failed provider call: network error, non-2xx status
// or an ok=false response.
type TransportError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("telegram %s: http %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("telegram %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Config struct {
	Token    string
	Endpoint string // defaults to DefaultEndpoint

	// PollTimeout is the long-poll timeout; the HTTP timeout is derived from it.
	PollTimeout time.Duration
	HTTPClient  *http.Client
}

// Client implements service.Messenger over the Bot API.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient connects to the Bot API and checks the token with getMe.
func NewClient(cfg Config) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.PollTimeout + 10*time.Second}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, &statusCheckingClient{inner: hc})
	if err != nil {
		return nil, classify("getMe", err)
	}
	return &Client{bot: bot}, nil
}

// Username is the bot's own handle as reported by getMe.
func (c *Client) Username() string { return c.bot.Self.UserName }

// FetchUpdates long-polls for updates after offset. A malformed response is
// logged and reported as no updates.
func (c *Client) FetchUpdates(ctx context.Context, offset, timeoutSeconds int) ([]domain.InboundMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updates, err := c.bot.GetUpdates(tgbotapi.UpdateConfig{Offset: offset, Timeout: timeoutSeconds})
	if err != nil {
		if isMalformed(err) {
			slogx.FromContext(ctx).Warn("malformed telegram response, treating as no updates", slog.Any("error", err))
			return nil, nil
		}
		return nil, classify("getUpdates", err)
	}

	out := make([]domain.InboundMessage, 0, len(updates))
	for _, u := range updates {
		out = append(out, toInbound(u))
	}
	return out, nil
}

// SendMessage delivers a plain text message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return classify("sendMessage", err)
	}
	return nil
}

// toInbound flattens an update. Updates without a message get ChatID 0 so
// the caller can still advance its offset past them.
func toInbound(u tgbotapi.Update) domain.InboundMessage {
	m := domain.InboundMessage{UpdateID: u.UpdateID}
	if u.Message == nil {
		return m
	}
	if u.Message.Chat != nil {
		m.ChatID = u.Message.Chat.ID
	}
	if u.Message.From != nil {
		m.Username = u.Message.From.UserName
	}
	m.Text = u.Message.Text
	return m
}

func classify(method string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &TransportError{Method: method, Err: fmt.Errorf("api error %d: %s", apiErr.Code, apiErr.Message)}
	}
	return &TransportError{Method: method, Err: err}
}

func isMalformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}

// statusCheckingClient turns non-2xx responses into TransportErrors before
// the Bot API library tries to decode them.
type statusCheckingClient struct {
	inner *http.Client
}

func (c *statusCheckingClient) Do(req *http.Request) (*http.Response, error) {
	method := path.Base(req.URL.Path)

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
		return nil, &TransportError{Method: method, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
