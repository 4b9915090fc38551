package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("library service unavailable")
)

// LibraryAPI is the slice of the REST API the bot calls on behalf of a chat.
type LibraryAPI interface {
	Token(ctx context.Context, email, password string) (string, error)
	LinkTelegram(ctx context.Context, accessToken string, chatID int64) error
}

type APIClient struct {
	baseURL string
	timeout time.Duration
	client  *fiber.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client: &fiber.Client{
			UserAgent:   "library-tgbot",
			JSONEncoder: jsoniter.Marshal,
			JSONDecoder: jsoniter.Unmarshal,
		},
	}
}

func (c *APIClient) Token(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	agent := c.client.Post(c.baseURL + "/api/v1/user/token").
		JSON(dto.TokenRequest{Email: email, Password: password}).
		Timeout(c.deadline(ctx))

	var res serverutils.BaseResponse[dto.TokenPairResponse]
	code, _, errs := agent.Struct(&res)
	if err := c.check(code, errs, res.Message); err != nil {
		return "", err
	}
	return res.Data.Access, nil
}

func (c *APIClient) LinkTelegram(ctx context.Context, accessToken string, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	agent := c.client.Patch(c.baseURL+"/api/v1/user/telegram").
		Set(fiber.HeaderAuthorization, "Bearer "+accessToken).
		JSON(dto.UpdateTelegramRequest{TelegramId: &chatID}).
		Timeout(c.deadline(ctx))

	var res serverutils.BaseResponse[dto.TelegramResponse]
	code, _, errs := agent.Struct(&res)
	return c.check(code, errs, res.Message)
}

func (c *APIClient) deadline(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < c.timeout {
			return left
		}
	}
	return c.timeout
}

func (c *APIClient) check(code int, errs []error, message string) error {
	switch {
	case code == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case len(errs) > 0 && code == 0:
		return fmt.Errorf("%w: %v", ErrUnavailable, errors.Join(errs...))
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	case code != http.StatusOK:
		return fmt.Errorf("unexpected status %d: %s", code, message)
	case len(errs) > 0:
		return errors.Join(errs...)
	}
	return nil
}
