package service

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"

	"github.com/localpulse/localpulse/pkg/logger"
)

func testSigningSecret(t *testing.T) string {
	t.Helper()
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte("test-signing-secret-32-bytes-ok!"))
}

func TestWebhookChannel_Send_SignedPayload(t *testing.T) {
	secret := testSigningSecret(t)

	var gotBody []byte
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	channel, err := NewWebhookChannel(secret, logger.NewNopLogger())
	require.NoError(t, err)
	channel.allowPrivateURLs = true

	profile := alertingProfile()
	profile.Notifications.WebhookURL = server.URL

	require.NoError(t, channel.Send(context.Background(), profile, lowRatedReview()))

	assert.Equal(t, webhookEventLowRating, gjson.GetBytes(gotBody, "type").String())
	assert.Equal(t, "rev-1", gjson.GetBytes(gotBody, "data.review_id").String())
	assert.Equal(t, int64(1), gjson.GetBytes(gotBody, "data.rating").Int())

	// The signature must verify with the same secret.
	verifier, err := standardwebhooks.NewWebhook(secret)
	require.NoError(t, err)
	require.NotEmpty(t, gotHeaders.Get("webhook-signature"))
	assert.NoError(t, verifier.Verify(gotBody, gotHeaders))
}

func TestWebhookChannel_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	channel, err := NewWebhookChannel("", logger.NewNopLogger())
	require.NoError(t, err)
	channel.allowPrivateURLs = true

	profile := alertingProfile()
	profile.Notifications.WebhookURL = server.URL

	err = channel.Send(context.Background(), profile, lowRatedReview())
	assert.ErrorContains(t, err, "502")
}

func TestWebhookChannel_Send_BlocksPrivateURL(t *testing.T) {
	channel, err := NewWebhookChannel("", logger.NewNopLogger())
	require.NoError(t, err)

	profile := alertingProfile()
	profile.Notifications.WebhookURL = "http://169.254.169.254/latest/meta-data"

	err = channel.Send(context.Background(), profile, lowRatedReview())
	assert.ErrorContains(t, err, "webhook URL rejected")
}

// fakeSESClient records the last SendEmail input.
type fakeSESClient struct {
	sesiface.SESAPI
	lastInput *ses.SendEmailInput
	err       error
}

func (f *fakeSESClient) SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...request.Option) (*ses.SendEmailOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
}

func TestSESChannel_Send(t *testing.T) {
	client := &fakeSESClient{}
	channel := NewSESChannelWithClient(client, "alerts@localpulse.app", "LocalPulse Alerts", logger.NewNopLogger())

	profile := alertingProfile()
	profile.Notifications.AlertEmail = "owner@example.com"

	require.NoError(t, channel.Send(context.Background(), profile, lowRatedReview()))

	require.NotNil(t, client.lastInput)
	assert.Equal(t, "owner@example.com", aws.StringValue(client.lastInput.Destination.ToAddresses[0]))
	assert.Contains(t, aws.StringValue(client.lastInput.Message.Subject.Data), "1-star")
	assert.Contains(t, aws.StringValue(client.lastInput.Message.Body.Html.Data), "Corner Bakery")
}
