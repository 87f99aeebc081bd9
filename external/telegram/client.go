package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/probegapp/probeg/internal/platform/logging"
)

const defaultBaseURL = "https://api.telegram.org"

var errTransient = crerr.New("telegram transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	BotToken   string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client is a minimal Bot API sender used for subscriber and admin
// notifications. The bot token never reaches the logs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.BotToken),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers one text message to a chat. A missing token
// turns the client into a no-op so local runs work without one.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c.token == "" {
		c.logger.DebugContext(ctx, "telegram token not configured, message dropped", "chat_id", chatID)
		return nil
	}

	body, err := sonic.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return crerr.Wrap(err, "marshal message")
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
		if err != nil {
			return crerr.Wrap(err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response: %v", errTransient, readErr)
			case resp.StatusCode == http.StatusOK:
				var parsed apiResponse
				if err := sonic.Unmarshal(raw, &parsed); err == nil && !parsed.OK {
					return crerr.Newf("telegram api rejected message: %s", parsed.Description)
				}
				return nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
				lastErr = fmt.Errorf("%w: status=%d", errTransient, resp.StatusCode)
			default:
				return crerr.Newf("telegram status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "telegram message delivery failed", "chat_id", chatID, "error", c.redact(fmt.Sprint(lastErr)))
	return lastErr
}

func (c *Client) redact(value string) string {
	if c.token == "" {
		return value
	}
	return strings.ReplaceAll(value, c.token, "REDACTED")
}
