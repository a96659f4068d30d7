package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/VladPetriv/telegram_bot/pkg/logger"
	"github.com/google/uuid"
	"resty.dev/v3"
)

// defaultTimeout is a request timeout applied to every api
// call that doesn't carry its own deadline.
const defaultTimeout = 30 * time.Second

// Client provides functionality to call the telegram bot API.
// It never retries failed requests.
type Client struct {
	httpClient  *resty.Client
	debugHTTP   bool
	debugChatID int64
	logger      *logger.Logger
}

// ClientOptions represents options that are required for creating a new instance of client.
type ClientOptions struct {
	// APIURL represents a base telegram API endpoint.
	APIURL string
	// Token represents a telegram bot token. It becomes a part of every request URL.
	Token string

	// DebugHTTP enables logging of every completed api call.
	DebugHTTP bool
	// DebugChatID redirects all outgoing messages to the given chat when set.
	DebugChatID int64

	Logger *logger.Logger
}

// NewClient returns a new instance of client.
func NewClient(opts ClientOptions) *Client {
	httpClient := resty.New().
		SetBaseURL(opts.APIURL + opts.Token)

	return &Client{
		httpClient:  httpClient,
		debugHTTP:   opts.DebugHTTP,
		debugChatID: opts.DebugChatID,
		logger:      opts.Logger,
	}
}

// Response represents an envelope wrapping every completed api call.
type Response struct {
	// Data is a decoded response body. Nil when the body is not valid JSON.
	Data *APIResponse `json:"data"`
	// Error is a body decoding failure description. Captured only in debug mode.
	Error string `json:"error,omitempty"`
	// Info is a raw transport metadata. Captured only in debug mode.
	Info *CallInfo `json:"info,omitempty"`
}

// CallInfo represents transport metadata of one completed api call.
type CallInfo struct {
	RequestID  string        `json:"requestId"`
	StatusCode int           `json:"statusCode"`
	Duration   time.Duration `json:"duration"`
}

// Get sends a GET request to the given api method.
func (c *Client) Get(method string, query map[string]string, headers map[string]string, timeout time.Duration) (Response, error) {
	return c.call(resty.MethodGet, method, query, nil, headers, timeout)
}

// Post sends a POST request to the given api method. When an attachment is
// present the request body is sent as multipart form data with streamed
// file contents, otherwise as a regular form encoded body.
func (c *Client) Post(method string, data map[string]string, attachment *File, headers map[string]string, timeout time.Duration) (Response, error) {
	return c.call(resty.MethodPost, method, data, attachment, headers, timeout)
}

// Put sends a PUT request to the given api method.
func (c *Client) Put(method string, data map[string]string, headers map[string]string, timeout time.Duration) (Response, error) {
	return c.call(resty.MethodPut, method, data, nil, headers, timeout)
}

// Delete sends a DELETE request to the given api method.
func (c *Client) Delete(method string, data map[string]string, headers map[string]string, timeout time.Duration) (Response, error) {
	return c.call(resty.MethodDelete, method, data, nil, headers, timeout)
}

func (c *Client) call(verb, method string, data map[string]string, attachment *File, headers map[string]string, timeout time.Duration) (Response, error) {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	request := c.httpClient.R().
		SetHeaders(headers).
		SetTimeout(timeout)

	if verb == resty.MethodGet {
		request.SetQueryParams(data)
	} else {
		request.SetFormData(data)
	}

	if attachment != nil {
		contents, filename, contentType, err := attachment.open()
		if err != nil {
			return Response{}, fmt.Errorf("open attachment: %w", err)
		}

		request.SetMultipartField(attachment.field(), filename, contentType, contents)
	}

	response, err := request.Execute(verb, method)
	if err != nil {
		return Response{}, fmt.Errorf("send %s request to %s: %w", verb, method, err)
	}

	return c.result(method, response), nil
}

func (c *Client) result(method string, response *resty.Response) Response {
	var result Response

	var decoded APIResponse
	err := json.Unmarshal(response.Bytes(), &decoded)
	switch err != nil {
	case true:
		if c.debugHTTP {
			result.Error = fmt.Sprintf("decode response body: %v", err)
		}
	case false:
		result.Data = &decoded
	}

	if c.debugHTTP {
		requestID := uuid.NewString()

		result.Info = &CallInfo{
			RequestID:  requestID,
			StatusCode: response.StatusCode(),
			Duration:   response.Duration(),
		}

		if c.logger != nil {
			c.logger.Debug().
				Str("requestID", requestID).
				Str("method", method).
				Int("statusCode", response.StatusCode()).
				Dur("duration", response.Duration()).
				Str("body", response.String()).
				Msg("completed telegram api call")
		}
	}

	return result
}

// GetMe returns basic information about the bot. Requires no parameters.
func (c *Client) GetMe() (Response, error) {
	return c.Get("/getMe", nil, nil, defaultTimeout)
}

// SetWebhook specifies an url to receive incoming updates via an outgoing webhook.
func (c *Client) SetWebhook(url string) (Response, error) {
	return c.Post("/setWebhook", map[string]string{"url": url}, nil, nil, defaultTimeout)
}

// GetUpdates receives incoming updates using long polling. The request
// timeout is stretched by gap seconds over the server-side hold time so the
// client never gives up before telegram responds.
func (c *Client) GetUpdates(offset int64, limit, timeout, gap int) ([]Update, error) {
	response, err := c.Post("/getUpdates", map[string]string{
		"offset":  strconv.FormatInt(offset, 10),
		"limit":   strconv.Itoa(limit),
		"timeout": strconv.Itoa(timeout),
	}, nil, nil, time.Duration(timeout+gap)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("send get updates request: %w", err)
	}

	if response.Data == nil || len(response.Data.Result) == 0 {
		return nil, nil
	}

	var updates []Update
	err = json.Unmarshal(response.Data.Result, &updates)
	if err != nil {
		return nil, fmt.Errorf("decode updates batch: %w", err)
	}

	return updates, nil
}
