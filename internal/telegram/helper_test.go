package telegram

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/VladPetriv/telegram_bot/pkg/logger"
)

const testToken = "123:ABC"

type recordedRequest struct {
	Verb string
	Path string
	Form url.Values
}

// fakeTelegram is an in-process telegram api stub recording every request.
type fakeTelegram struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest

	// respond overrides the response body per api method when set.
	respond func(method string, form url.Values) string
}

func newFakeTelegram(t *testing.T) *fakeTelegram {
	t.Helper()

	fake := &fakeTelegram{}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		form := make(url.Values, len(r.Form))
		for key, values := range r.Form {
			form[key] = values
		}

		fake.mu.Lock()
		fake.requests = append(fake.requests, recordedRequest{
			Verb: r.Method,
			Path: r.URL.Path,
			Form: form,
		})
		respond := fake.respond
		fake.mu.Unlock()

		body := `{"ok":true,"result":{"message_id":1}}`
		if respond != nil {
			body = respond(apiMethod(r.URL.Path), form)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(fake.server.Close)

	return fake
}

// apiMethod strips the "/bot<token>" prefix from a request path.
func apiMethod(path string) string {
	index := strings.LastIndex(path, "/")
	if index == -1 {
		return path
	}

	return path[index:]
}

// calls returns every recorded request targeting the given api method.
func (f *fakeTelegram) calls(method string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []recordedRequest
	for _, request := range f.requests {
		if apiMethod(request.Path) == method {
			matched = append(matched, request)
		}
	}

	return matched
}

func newTestClient(t *testing.T, fake *fakeTelegram) *Client {
	t.Helper()

	return NewClient(ClientOptions{
		APIURL: fake.server.URL + "/bot",
		Token:  testToken,
		Logger: testLogger(),
	})
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{LogLevel: "debug"})
}
