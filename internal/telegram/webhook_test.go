package telegram

import (
	"testing"

	"github.com/VladPetriv/telegram_bot/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newTestWebhookServer(t *testing.T, fake *fakeTelegram, opts RegistryOptions) *WebhookServer {
	t.Helper()

	registry, err := NewRegistry(opts)
	require.NoError(t, err)

	client := newTestClient(t, fake)

	return NewWebhookServer(WebhookServerOptions{
		Dispatcher: NewDispatcher(client, registry, testLogger()),
		Logger:     testLogger(),
		Token:      testToken,
	})
}

func webhookRequest(token string, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	ctx.SetUserValue("token", token)

	return &ctx
}

func TestWebhookHookPath(t *testing.T) {
	t.Parallel()

	fake := newFakeTelegram(t)

	server := newTestWebhookServer(t, fake, RegistryOptions{})
	assert.Equal(t, "/telegram/hook/"+testToken, server.HookPath())
}

func TestWebhookHandleUpdate(t *testing.T) {
	t.Parallel()

	fake := newFakeTelegram(t)
	text := &stubTextHandler{}
	server := newTestWebhookServer(t, fake, RegistryOptions{Text: text})

	ctx := webhookRequest(testToken, `{"update_id":1,"message":{"message_id":2,"chat":{"id":3},"text":"hi"}}`)
	server.handleUpdate(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.Equal(t, 1, text.calls)
	assert.Equal(t, "hi", text.messages[0].Text)
}

func TestWebhookRejectsForeignToken(t *testing.T) {
	t.Parallel()

	fake := newFakeTelegram(t)
	text := &stubTextHandler{}
	server := newTestWebhookServer(t, fake, RegistryOptions{Text: text})

	ctx := webhookRequest("wrong-token", `{"update_id":1}`)
	server.handleUpdate(ctx)

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.Zero(t, text.calls)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	fake := newFakeTelegram(t)
	server := newTestWebhookServer(t, fake, RegistryOptions{})

	ctx := webhookRequest(testToken, `{not json`)
	server.handleUpdate(ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestWebhookHandlerErrorStatusCodes(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc       string
		handlerErr error
		expected   int
	}{
		{
			desc:       "unexpected handler error",
			handlerErr: assert.AnError,
			expected:   fasthttp.StatusInternalServerError,
		},
		{
			desc:       "expected handler error",
			handlerErr: errs.New("chat is read only"),
			expected:   fasthttp.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			fake := newFakeTelegram(t)
			server := newTestWebhookServer(t, fake, RegistryOptions{
				Text: &stubTextHandler{err: tc.handlerErr},
			})

			ctx := webhookRequest(testToken, `{"update_id":1,"message":{"message_id":2,"chat":{"id":3},"text":"hi"}}`)
			server.handleUpdate(ctx)

			assert.Equal(t, tc.expected, ctx.Response.StatusCode())
		})
	}
}
