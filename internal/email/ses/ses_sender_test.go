package ses_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdops/internal/domain"
	"holdops/internal/email/ses"
)

func TestSESSender_Send(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/email/outbound-emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MessageId":"msg-1"}`))
	}))
	defer srv.Close()

	client := sesv2.New(sesv2.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: aws.String(srv.URL),
	})
	sender := ses.NewSESSenderWithClient(client, "ops@example.com", "Holdops")

	err := sender.Send(context.Background(), domain.Email{
		To:      []string{"cfo@example.com"},
		Subject: "March digest",
		HTML:    "<p>hi</p>",
		Text:    "hi",
		Tags:    map[string]string{"kind": "digest"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Holdops <ops@example.com>", got["FromEmailAddress"])
	dest := got["Destination"].(map[string]interface{})
	assert.Equal(t, []interface{}{"cfo@example.com"}, dest["ToAddresses"])
}

func TestSESSender_NoRecipients(t *testing.T) {
	client := sesv2.New(sesv2.Options{Region: "us-east-1"})
	err := ses.NewSESSenderWithClient(client, "ops@example.com", "Holdops").Send(context.Background(), domain.Email{Subject: "x"})
	assert.True(t, errors.Is(err, domain.ErrNoRecipients))
}
