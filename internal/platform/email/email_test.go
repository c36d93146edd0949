package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/phrazzld/duesoon/internal/config"
	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/email"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotification() domain.Notification {
	return domain.Notification{
		To:        "a@x.com",
		ToName:    "A",
		Subject:   "Gentle Reminder: Testing Deadline Approaching",
		PlainText: "Hi A,\n\nplain body",
		HTML:      "<p>Hi A,</p>",
	}
}

type recorded struct {
	mu     sync.Mutex
	path   string
	auth   string
	body   []byte
	form   map[string]string
	called int
}

func TestSendGridSender(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		rec := &recorded{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.called++
			rec.path = r.URL.Path
			rec.auth = r.Header.Get("Authorization")
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			rec.body, _ = json.Marshal(body)
			w.Header().Set("X-Message-Id", "sg-123")
			w.WriteHeader(http.StatusAccepted)
		}))
		t.Cleanup(srv.Close)

		s, err := email.NewSendGridSender("SG.key", srv.URL, email.Address{Name: "Duesoon", Email: "noreply@x.com"}, nil)
		require.NoError(t, err)

		receipt, err := s.Send(context.Background(), sampleNotification())
		require.NoError(t, err)
		assert.Equal(t, email.Receipt{Provider: "sendgrid", StatusCode: 202, MessageID: "sg-123"}, receipt)

		rec.mu.Lock()
		defer rec.mu.Unlock()
		assert.Equal(t, 1, rec.called)
		assert.Equal(t, "/v3/mail/send", rec.path)
		assert.Equal(t, "Bearer SG.key", rec.auth)

		var payload struct {
			From             struct{ Name, Email string }
			Subject          string
			Personalizations []struct {
				To []struct{ Name, Email string }
			}
			Content []struct{ Type, Value string }
		}
		require.NoError(t, json.Unmarshal(rec.body, &payload))
		assert.Equal(t, "noreply@x.com", payload.From.Email)
		assert.Equal(t, "Gentle Reminder: Testing Deadline Approaching", payload.Subject)
		require.Len(t, payload.Personalizations, 1)
		require.Len(t, payload.Personalizations[0].To, 1)
		assert.Equal(t, "a@x.com", payload.Personalizations[0].To[0].Email)
		require.Len(t, payload.Content, 2)
		assert.Equal(t, "text/plain", payload.Content[0].Type)
		assert.Equal(t, "text/html", payload.Content[1].Type)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
		}))
		t.Cleanup(srv.Close)

		log, buf := logger.NewTestLogger()
		s, err := email.NewSendGridSender("SG.bad", srv.URL, email.Address{Email: "noreply@x.com"}, log)
		require.NoError(t, err)

		receipt, err := s.Send(context.Background(), sampleNotification())
		assert.ErrorIs(t, err, email.ErrUnexpectedStatus)
		assert.ErrorContains(t, err, "bad key")
		assert.Equal(t, http.StatusUnauthorized, receipt.StatusCode)
		assert.Len(t, buf.FindEntries("sendgrid rejected message"), 1)
	})

	t.Run("invalid message is rejected before sending", func(t *testing.T) {
		t.Parallel()
		s, err := email.NewSendGridSender("SG.key", "http://127.0.0.1:0", email.Address{Email: "noreply@x.com"}, nil)
		require.NoError(t, err)

		msg := sampleNotification()
		msg.To = ""
		_, err = s.Send(context.Background(), msg)
		assert.ErrorIs(t, err, domain.ErrEmptyRecipient)
	})

	t.Run("requires key and from", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewSendGridSender("", "", email.Address{Email: "noreply@x.com"}, nil)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
		_, err = email.NewSendGridSender("SG.key", "", email.Address{}, nil)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestMailgunSender(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		rec := &recorded{form: map[string]string{}}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.called++
			rec.path = r.URL.Path
			for _, k := range []string{"from", "to", "subject", "text", "html"} {
				rec.form[k] = r.FormValue(k)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"<mg-1@mg.x.com>","message":"Queued. Thank you."}`))
		}))
		t.Cleanup(srv.Close)

		s, err := email.NewMailgunSender("mg.x.com", "key-1", srv.URL+"/v3",
			email.Address{Name: "Duesoon", Email: "noreply@x.com"}, nil)
		require.NoError(t, err)

		receipt, err := s.Send(context.Background(), sampleNotification())
		require.NoError(t, err)
		assert.Equal(t, "mailgun", receipt.Provider)
		assert.Zero(t, receipt.StatusCode)
		assert.Equal(t, "<mg-1@mg.x.com>", receipt.MessageID)

		rec.mu.Lock()
		defer rec.mu.Unlock()
		assert.Equal(t, 1, rec.called)
		assert.True(t, strings.HasSuffix(rec.path, "/mg.x.com/messages"), rec.path)
		assert.Equal(t, `"Duesoon" <noreply@x.com>`, rec.form["from"])
		assert.Equal(t, `"A" <a@x.com>`, rec.form["to"])
		assert.Equal(t, "Gentle Reminder: Testing Deadline Approaching", rec.form["subject"])
		assert.Equal(t, "Hi A,\n\nplain body", rec.form["text"])
		assert.Equal(t, "<p>Hi A,</p>", rec.form["html"])
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		s, err := email.NewMailgunSender("mg.x.com", "key-1", srv.URL+"/v3", email.Address{Email: "noreply@x.com"}, nil)
		require.NoError(t, err)

		_, err = s.Send(context.Background(), sampleNotification())
		assert.ErrorContains(t, err, "mailgun send failed")
	})

	t.Run("requires domain, key and from", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewMailgunSender("", "key", "", email.Address{Email: "noreply@x.com"}, nil)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()
	receipt, err := email.NewLogSender(log).Send(context.Background(), sampleNotification())
	require.NoError(t, err)
	assert.Equal(t, "log", receipt.Provider)
	assert.NotEmpty(t, receipt.MessageID)

	entries := buf.FindEntries("email not sent (log provider)")
	require.Len(t, entries, 1)
	assert.Equal(t, "a@x.com", entries[0]["to"])
	assert.Equal(t, receipt.MessageID, entries[0]["message_id"])
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	base := config.EmailConfig{FromAddress: "noreply@x.com", Signature: "Team"}

	tests := []struct {
		name    string
		mutate  func(*config.EmailConfig)
		want    any
		wantErr bool
	}{
		{"sendgrid", func(c *config.EmailConfig) { c.Provider = "sendgrid"; c.SendGridAPIKey = "k" }, &email.SendGridSender{}, false},
		{"mailgun", func(c *config.EmailConfig) {
			c.Provider = "mailgun"
			c.MailgunAPIKey = "k"
			c.MailgunDomain = "mg.x.com"
		}, &email.MailgunSender{}, false},
		{"log", func(c *config.EmailConfig) { c.Provider = "log" }, &email.LogSender{}, false},
		{"sendgrid without key", func(c *config.EmailConfig) { c.Provider = "sendgrid" }, nil, true},
		{"unknown", func(c *config.EmailConfig) { c.Provider = "pigeon" }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)

			s, err := email.NewSender(cfg, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}
