package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abhijeet/cadence/internal/apperr"
)

// fakeAPI is a minimal in-memory Assistants backend. Each retrieveRun
// call pops the next status from the script; the last status repeats.
type fakeAPI struct {
	statuses []string
	polls    int
	messages []string
	reply    string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode message body: %v", err)
		}
		f.messages = append(f.messages, body.Content)
		fmt.Fprint(w, `{"id":"msg_1"}`)
	})

	mux.HandleFunc("POST /threads/thread_1/runs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id":"run_1","status":"queued"}`)
	})

	mux.HandleFunc("GET /threads/thread_1/runs/run_1", func(w http.ResponseWriter, _ *http.Request) {
		i := f.polls
		if i >= len(f.statuses) {
			i = len(f.statuses) - 1
		}
		f.polls++
		fmt.Fprintf(w, `{"id":"run_1","status":%q}`, f.statuses[i])
	})

	mux.HandleFunc("GET /threads/thread_1/messages", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{{
				"role": "assistant",
				"content": []map[string]any{{
					"type": "text",
					"text": map[string]string{"value": f.reply},
				}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	return mux
}

func testClient(t *testing.T, f *fakeAPI, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient("test-key", "asst_1", "thread_1",
		WithBaseURL(srv.URL),
		WithPolling(time.Millisecond, timeout))
}

func TestRunAndWaitCompleted(t *testing.T) {
	f := &fakeAPI{
		statuses: []string{"queued", "in_progress", "completed"},
		reply:    "  1. Previous Day Feedback\nDo the work.\n  ",
	}
	c := testClient(t, f, time.Second)

	res, err := c.RunAndWait(context.Background(), "plan my day")
	if err != nil {
		t.Fatalf("RunAndWait: %v", err)
	}
	if res.Failed {
		t.Error("Failed = true, want false")
	}
	want := "1. Previous Day Feedback\nDo the work."
	if res.Text != want {
		t.Errorf("text = %q, want trimmed %q", res.Text, want)
	}
	if len(f.messages) != 1 || f.messages[0] != "plan my day" {
		t.Errorf("thread messages = %v, want the prompt appended once", f.messages)
	}
}

func TestRunAndWaitTerminalFailure(t *testing.T) {
	for _, status := range []string{"failed", "cancelled", "expired"} {
		t.Run(status, func(t *testing.T) {
			f := &fakeAPI{statuses: []string{"queued", status}, reply: "unused"}
			c := testClient(t, f, time.Second)

			res, err := c.RunAndWait(context.Background(), "plan my day")
			if err != nil {
				t.Fatalf("terminal status must not raise, got %v", err)
			}
			if !res.Failed {
				t.Error("Failed = false, want true")
			}
			if res.Text != FailureSentinel {
				t.Errorf("text = %q, want sentinel %q", res.Text, FailureSentinel)
			}
		})
	}
}

func TestRunAndWaitTimeout(t *testing.T) {
	f := &fakeAPI{statuses: []string{"in_progress"}, reply: "unused"}
	c := testClient(t, f, 10*time.Millisecond)

	_, err := c.RunAndWait(context.Background(), "plan my day")
	if !errors.Is(err, apperr.ErrRunTimeout) {
		t.Fatalf("err = %v, want ErrRunTimeout", err)
	}
}

func TestRunAndWaitContextCancelled(t *testing.T) {
	f := &fakeAPI{statuses: []string{"in_progress"}, reply: "unused"}
	c := testClient(t, f, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.RunAndWait(ctx, "plan my day")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAddMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("bad-key", "asst_1", "thread_1", WithBaseURL(srv.URL))
	err := c.AddMessage(context.Background(), "hello")
	if err == nil {
		t.Fatal("want error on 401")
	}
	if !strings.Contains(err.Error(), "Incorrect API key") {
		t.Errorf("error %q should carry the API message", err)
	}
}
