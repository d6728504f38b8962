package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SubTracker/internal/domain"
)

func TestWebhookSend(t *testing.T) {
	t.Parallel()

	var got domain.AlertRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sink := NewWebhook(server.URL)
	req := domain.AlertRequest{
		Kind:             domain.AlertPriceDrop,
		UserEmail:        "a@example.com",
		SubscriptionName: "Netflix",
		OldPrice:         199,
		NewPrice:         149,
		Message:          "Netflix price dropped from 199.00 to 149.00 INR",
	}

	if err := sink.Send(context.Background(), req); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if got.Kind != domain.AlertPriceDrop || got.UserEmail != "a@example.com" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.NewPrice != 149 {
		t.Fatalf("unexpected new price: %v", got.NewPrice)
	}
}

func TestWebhookRejectsServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewWebhook(server.URL)
	if err := sink.Send(context.Background(), domain.AlertRequest{}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

func TestWebhookMisconfigured(t *testing.T) {
	t.Parallel()

	sink := NewWebhook("")
	if err := sink.Send(context.Background(), domain.AlertRequest{}); err == nil {
		t.Fatal("expected error without a webhook URL")
	}
}
