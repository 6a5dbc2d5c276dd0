package resend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	resendsdk "github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/email/resend"
)

func TestResendSender_Send(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	client := resendsdk.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	sender := resend.NewResendSenderWithClient(client, "ops@example.com", "Holdops", zap.NewNop())
	err = sender.Send(context.Background(), domain.Email{
		To:      []string{"cfo@example.com"},
		Subject: "March digest",
		Text:    "hi",
		Tags:    map[string]string{"kind": "digest"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Holdops <ops@example.com>", got["from"])
	assert.Equal(t, "March digest", got["subject"])
}

func TestResendSender_NoRecipients(t *testing.T) {
	sender := resend.NewResendSender("re_test", "ops@example.com", "Holdops", zap.NewNop())
	assert.ErrorIs(t, sender.Send(context.Background(), domain.Email{}), domain.ErrNoRecipients)
}
