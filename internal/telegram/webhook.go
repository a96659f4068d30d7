package telegram

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VladPetriv/telegram_bot/pkg/errs"
	"github.com/VladPetriv/telegram_bot/pkg/logger"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// WebhookServer receives update pushes from telegram. The bot token embedded
// in the request path is the only authentication: requests with any other
// token are rejected as not found.
type WebhookServer struct {
	dispatcher *Dispatcher
	logger     *logger.Logger

	token  string
	path   string
	addr   string
	server *fasthttp.Server
}

// WebhookServerOptions represents options that are required for creating a new instance of webhook server.
type WebhookServerOptions struct {
	Dispatcher *Dispatcher
	Logger     *logger.Logger

	// Token is a telegram bot token expected in the request path.
	Token string
	// Path is a route prefix updates are pushed to. Defaults to "/telegram/hook/".
	Path string
	// ServerAddress is an address the server listens on.
	ServerAddress string
}

// NewWebhookServer returns a new instance of webhook server.
func NewWebhookServer(opts WebhookServerOptions) *WebhookServer {
	path := opts.Path
	if path == "" {
		path = "/telegram/hook/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	return &WebhookServer{
		dispatcher: opts.Dispatcher,
		logger:     opts.Logger,
		token:      opts.Token,
		path:       path,
		addr:       opts.ServerAddress,
	}
}

// HookPath returns the request path telegram should push updates to.
func (s *WebhookServer) HookPath() string {
	return s.path + s.token
}

// Start registers the webhook route and blocks serving requests.
func (s *WebhookServer) Start() error {
	handlers := router.New()
	handlers.POST(s.path+"{token}", s.handleUpdate)
	handlers.GET(s.path+"{token}", s.handleUpdate)

	s.server = &fasthttp.Server{
		Handler: handlers.Handler,
	}

	err := s.server.ListenAndServe(s.addr)
	if err != nil {
		return fmt.Errorf("listen and serve webhook updates: %w", err)
	}

	return nil
}

// Stop gracefully shuts the server down.
func (s *WebhookServer) Stop() error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown()
}

func (s *WebhookServer) handleUpdate(ctx *fasthttp.RequestCtx) {
	token, _ := ctx.UserValue("token").(string)
	if token != s.token {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	var update Update
	err := json.Unmarshal(ctx.PostBody(), &update)
	if err != nil {
		s.logger.Warn().Err(err).Msg("got malformed update body")
		ctx.SetStatusCode(fasthttp.StatusBadRequest)

		return
	}

	err = s.dispatcher.Dispatch(update)
	if err != nil {
		s.logger.Error().Err(err).Int64("updateID", update.UpdateID).Msg("dispatch update")

		statusCode := fasthttp.StatusInternalServerError
		if errs.IsExpected(err) {
			statusCode = fasthttp.StatusBadRequest
		}
		ctx.SetStatusCode(statusCode)

		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
}
