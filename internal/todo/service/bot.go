package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

const (
	DefaultPollTimeout = 30 // seconds
	DefaultBotBackoff  = 5 * time.Second

	botGoalsLimit = 20
)

const botHelp = `Available commands:
/goals - list your goals
/create - create a goal
/cancel - cancel goal creation`

type flowStep int

const (
	stepPickCategory flowStep = iota
	stepTitle
)

// createFlow is the state of a chat in the middle of /create.
type createFlow struct {
	step       flowStep
	categories []domain.Category
	category   domain.Category
}

// BotService long-polls the messenger and answers chats. Conversation state
// lives in memory and is lost on restart.
type BotService struct {
	Messenger   Messenger
	Links       *TelegramService
	Goals       *GoalService
	Categories  *CategoryService
	Logger      *slog.Logger
	PollTimeout int
	Backoff     time.Duration

	mu     sync.Mutex
	flows  map[int64]*createFlow
	offset int

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewBotService(m Messenger, links *TelegramService, goals *GoalService, cats *CategoryService, logger *slog.Logger, pollTimeout int) *BotService {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &BotService{
		Messenger:   m,
		Links:       links,
		Goals:       goals,
		Categories:  cats,
		Logger:      logger,
		PollTimeout: pollTimeout,
		Backoff:     DefaultBotBackoff,
		flows:       make(map[int64]*createFlow),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs the poll loop in the background until Stop.
func (s *BotService) Start() {
	go s.run()
	s.Logger.Info("telegram bot started", "poll_timeout", s.PollTimeout)
}

// Stop asks the loop to exit after the in-flight poll and waits for it, or
// for ctx to end.
func (s *BotService) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })

	select {
	case <-s.doneCh:
		s.Logger.Info("telegram bot stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *BotService) run() {
	defer close(s.doneCh)

	// Polls are not tied to shutdown; the loop only exits between them.
	ctx := slogx.WithContext(context.Background(), s.Logger)

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		if err := s.Poll(ctx); err != nil {
			s.Logger.Warn("telegram poll failed, backing off",
				slog.Duration("backoff", s.Backoff),
				slog.Any("error", err),
			)
			select {
			case <-s.stopCh:
				return
			case <-time.After(s.Backoff):
			}
		}
	}
}

// Poll fetches one batch of updates, handles them in order and advances the
// offset past them.
func (s *BotService) Poll(ctx context.Context) error {
	s.mu.Lock()
	offset := s.offset
	s.mu.Unlock()

	msgs, err := s.Messenger.FetchUpdates(ctx, offset, s.PollTimeout)
	if err != nil {
		return err
	}

	for _, m := range msgs {
		if m.ChatID != 0 {
			s.HandleMessage(ctx, m)
		}

		s.mu.Lock()
		if m.UpdateID >= s.offset {
			s.offset = m.UpdateID + 1
		}
		s.mu.Unlock()
	}
	return nil
}

// HandleMessage answers one inbound message.
func (s *BotService) HandleMessage(ctx context.Context, m domain.InboundMessage) {
	ctx = slogx.With(ctx, "chat_id", m.ChatID)
	log := slogx.FromContext(ctx)

	link, err := s.Links.EnsureLink(ctx, m.ChatID)
	if err != nil {
		log.Error("failed to load telegram link", slog.Any("error", err))
		return
	}

	if !link.Verified() {
		code, err := s.Links.IssueVerificationCode(ctx, m.ChatID)
		if err != nil {
			log.Error("failed to issue verification code", slog.Any("error", err))
			return
		}
		s.reply(ctx, m.ChatID, "Link this chat to your account: confirm the verification code below on the website.\n\n"+code)
		return
	}

	userID := *link.UserID
	text := strings.TrimSpace(m.Text)

	switch command(text) {
	case "/cancel":
		if s.takeFlow(m.ChatID) != nil {
			s.reply(ctx, m.ChatID, "Goal creation cancelled.")
		} else {
			s.reply(ctx, m.ChatID, "Nothing to cancel.")
		}
		return
	case "/goals":
		s.takeFlow(m.ChatID)
		s.reply(ctx, m.ChatID, s.listGoals(ctx, userID))
		return
	case "/create":
		s.startCreate(ctx, m.ChatID, userID)
		return
	}

	if flow := s.flow(m.ChatID); flow != nil {
		s.continueCreate(ctx, m.ChatID, userID, flow, text)
		return
	}

	s.reply(ctx, m.ChatID, botHelp)
}

func (s *BotService) listGoals(ctx context.Context, userID string) string {
	page, err := s.Goals.List(ctx, userID, GoalQuery{}, ListOptions{Ordering: "due_date", Limit: botGoalsLimit})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list goals", slog.Any("error", err))
		return "Could not load your goals, try again later."
	}
	if page.Count == 0 {
		return "You have no goals. Create one with /create"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your goals (%d):\n", page.Count)
	for i, g := range page.Results {
		fmt.Fprintf(&b, "%d. %s [%s, %s", i+1, g.Title, g.Status, g.Priority)
		if g.DueDate != nil {
			fmt.Fprintf(&b, ", due %s", *g.DueDate)
		}
		b.WriteString("]\n")
	}
	if page.Count > len(page.Results) {
		fmt.Fprintf(&b, "...and %d more", page.Count-len(page.Results))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *BotService) startCreate(ctx context.Context, chatID int64, userID string) {
	page, err := s.Categories.List(ctx, userID, "", ListOptions{Limit: MaxPageSize})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list categories", slog.Any("error", err))
		s.reply(ctx, chatID, "Could not load your categories, try again later.")
		return
	}
	if len(page.Results) == 0 {
		s.reply(ctx, chatID, "You have no categories. Create one on the website first.")
		return
	}

	s.mu.Lock()
	s.flows[chatID] = &createFlow{step: stepPickCategory, categories: page.Results}
	s.mu.Unlock()

	var b strings.Builder
	b.WriteString("Pick a category by number:\n")
	for i, c := range page.Results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Title)
	}
	b.WriteString("\n/cancel to stop")
	s.reply(ctx, chatID, b.String())
}

func (s *BotService) continueCreate(ctx context.Context, chatID int64, userID string, flow *createFlow, text string) {
	switch flow.step {
	case stepPickCategory:
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > len(flow.categories) {
			s.reply(ctx, chatID, fmt.Sprintf("Send a number between 1 and %d, or /cancel.", len(flow.categories)))
			return
		}
		s.mu.Lock()
		flow.category = flow.categories[n-1]
		flow.step = stepTitle
		s.mu.Unlock()
		s.reply(ctx, chatID, "Send the goal title.")

	case stepTitle:
		g, err := s.Goals.Create(ctx, userID, GoalInput{Category: &flow.category.ID, Title: &text})
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr) && verr.Has("title"):
				s.reply(ctx, chatID, "That title does not work: "+strings.Join(verr.Fields["title"], " ")+" Send another, or /cancel.")
				return
			case errors.As(err, &verr):
				s.reply(ctx, chatID, "Could not create the goal, the category is no longer available.")
			case errors.Is(err, ErrForbidden):
				s.reply(ctx, chatID, "You cannot create goals in "+flow.category.Title+".")
			default:
				slogx.FromContext(ctx).Error("failed to create goal from bot", slog.Any("error", err))
				s.reply(ctx, chatID, "Could not create the goal, try again later.")
			}
			s.takeFlow(chatID)
			return
		}
		s.takeFlow(chatID)
		s.reply(ctx, chatID, fmt.Sprintf("Goal created: %s (%s)", g.Title, flow.category.Title))
	}
}

func (s *BotService) flow(chatID int64) *createFlow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flows[chatID]
}

// takeFlow removes and returns the chat's flow.
func (s *BotService) takeFlow(chatID int64) *createFlow {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flows[chatID]
	delete(s.flows, chatID)
	return f
}

func (s *BotService) reply(ctx context.Context, chatID int64, text string) {
	if err := s.Messenger.SendMessage(ctx, chatID, text); err != nil {
		slogx.FromContext(ctx).Error("failed to send telegram message", slog.Any("error", err))
	}
}

// command returns the leading /command of text without any @botname suffix.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}
