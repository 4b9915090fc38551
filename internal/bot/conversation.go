package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/repository/memory"

	"github.com/go-playground/validator/v10"
)

const (
	helpText = "Library notifications bot.\n\n" +
		"/login - link this chat to your library account\n" +
		"/cancel - abort the current login\n" +
		"/help - show this message"

	msgAskEmail       = "Please send the email of your library account."
	msgAskPassword    = "Now send your password. The message will be removed from this chat."
	msgBadEmail       = "That does not look like an email. Try again or send /cancel."
	msgCancelled      = "Login cancelled."
	msgNothingPending = "Nothing to cancel."
	msgNoSession      = "Send /login to link your library account."
	msgUnknownCommand = "Unknown command. Send /help for the list of commands."
	msgBadCredentials = "Invalid email or password. Send /login to try again."
	msgUnavailable    = "The library service is unavailable right now. Please try again later."
	msgLinked         = "Done! This chat is now linked to %s. Library notifications will arrive here."
)

// Conversation drives the per-chat /login flow.
type Conversation struct {
	messenger Messenger
	api       LibraryAPI
	sessions  *memory.LoginSessionRepository
	validate  *validator.Validate
	logger    logger.ILogger
	now       func() time.Time
}

func NewConversation(messenger Messenger, api LibraryAPI, sessions *memory.LoginSessionRepository, log logger.ILogger) *Conversation {
	return &Conversation{
		messenger: messenger,
		api:       api,
		sessions:  sessions,
		validate:  validator.New(),
		logger:    log,
		now:       time.Now,
	}
}

func (c *Conversation) Handle(ctx context.Context, msg Incoming) error {
	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		return c.command(ctx, msg.ChatID, parseCommand(text))
	}

	session, ok := c.sessions.Get(msg.ChatID)
	if !ok {
		return c.reply(ctx, msg.ChatID, msgNoSession)
	}

	switch session.Step {
	case entity.LoginStepAwaitEmail:
		return c.receiveEmail(ctx, session, text)
	case entity.LoginStepAwaitPassword:
		return c.receivePassword(ctx, session, msg, text)
	}
	c.sessions.Delete(msg.ChatID)
	return c.reply(ctx, msg.ChatID, msgNoSession)
}

func (c *Conversation) command(ctx context.Context, chatID int64, cmd string) error {
	switch cmd {
	case "start", "help":
		return c.reply(ctx, chatID, helpText)
	case "login":
		c.sessions.Save(&entity.LoginSession{
			ChatID:    chatID,
			Step:      entity.LoginStepAwaitEmail,
			StartedAt: c.now(),
		})
		return c.reply(ctx, chatID, msgAskEmail)
	case "cancel":
		if _, ok := c.sessions.Get(chatID); !ok {
			return c.reply(ctx, chatID, msgNothingPending)
		}
		c.sessions.Delete(chatID)
		return c.reply(ctx, chatID, msgCancelled)
	}
	return c.reply(ctx, chatID, msgUnknownCommand)
}

func (c *Conversation) receiveEmail(ctx context.Context, session *entity.LoginSession, text string) error {
	email := strings.ToLower(text)
	if err := c.validate.Var(email, "required,email"); err != nil {
		return c.reply(ctx, session.ChatID, msgBadEmail)
	}

	session.Email = email
	session.Step = entity.LoginStepAwaitPassword
	c.sessions.Save(session)
	return c.reply(ctx, session.ChatID, msgAskPassword)
}

func (c *Conversation) receivePassword(ctx context.Context, session *entity.LoginSession, msg Incoming, password string) error {
	c.sessions.Delete(session.ChatID)

	if err := c.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		c.logger.Warn("BOT", "Could not delete password message", map[string]interface{}{
			"chat_id": msg.ChatID,
			"error":   err.Error(),
		})
	}

	access, err := c.api.Token(ctx, session.Email, password)
	if err != nil {
		return c.loginFailed(ctx, session, err)
	}
	if err := c.api.LinkTelegram(ctx, access, session.ChatID); err != nil {
		return c.loginFailed(ctx, session, err)
	}

	c.logger.Info("BOT", "Chat linked", map[string]interface{}{
		"chat_id": session.ChatID,
		"email":   session.Email,
	})
	return c.reply(ctx, session.ChatID, fmt.Sprintf(msgLinked, session.Email))
}

func (c *Conversation) loginFailed(ctx context.Context, session *entity.LoginSession, err error) error {
	if errors.Is(err, ErrInvalidCredentials) {
		return c.reply(ctx, session.ChatID, msgBadCredentials)
	}
	c.logger.Error("BOT", "Login failed", map[string]interface{}{
		"chat_id": session.ChatID,
		"error":   err.Error(),
	})
	return c.reply(ctx, session.ChatID, msgUnavailable)
}

func (c *Conversation) reply(ctx context.Context, chatID int64, text string) error {
	return c.messenger.SendText(ctx, chatID, text)
}

// parseCommand turns "/login@library_bot extra" into "login".
func parseCommand(text string) string {
	cmd := strings.Fields(text)[0]
	cmd = strings.TrimPrefix(cmd, "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
