package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rupped-negotiator/internal/negotiation"
	"rupped-negotiator/internal/service"
	"rupped-negotiator/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var testBody = NegotiateRequest{
	Messages:    []MessagePayload{{Role: "user", Content: "I'll offer $90"}},
	ProductID:   "pack-1",
	ProductName: "Trail Pack",
	ListPrice:   100,
}

var testServiceRequest = service.NegotiationRequest{
	Messages: []negotiation.Message{{Role: negotiation.RoleUser, Content: "I'll offer $90"}},
	Product:  negotiation.Context{ProductID: "pack-1", ProductName: "Trail Pack", ListPrice: 100},
}

func encodeBody(t *testing.T, body interface{}) *bytes.Buffer {
	t.Helper()
	if s, ok := body.(string); ok {
		return bytes.NewBufferString(s)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return bytes.NewBuffer(raw)
}

// eventsOf returns a closed channel holding texts as events; errText, if set, is sent last as an error event.
func eventsOf(texts []string, errText string) <-chan service.SentenceEvent {
	ch := make(chan service.SentenceEvent, len(texts)+1)
	for _, text := range texts {
		ch <- service.SentenceEvent{Text: text}
	}
	if errText != "" {
		ch <- service.SentenceEvent{Text: errText, Err: service.ErrUpstreamUnavailable}
	}
	close(ch)
	return ch
}

func TestNewNegotiateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockNegotiationService(ctrl)
	handler := NewNegotiateHandler(mockService)

	if handler == nil {
		t.Fatal("NewNegotiateHandler() returned nil")
	}
	if handler.negotiationService != mockService {
		t.Error("NewNegotiateHandler() negotiationService not set correctly")
	}
}

func TestNegotiateHandler_Buffered(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		mockSetup  func(*mocks.MockNegotiationService)
		wantStatus int
		wantText   string
	}{
		{
			name: "successful request",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					Negotiate(gomock.Any(), testServiceRequest).
					Return(service.NegotiationResponse{Text: "Deal at $90."}, nil)
			},
			wantStatus: http.StatusOK,
			wantText:   "Deal at $90.",
		},
		{
			name:       "invalid JSON body",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockNegotiationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					Negotiate(gomock.Any(), gomock.Any()).
					Return(service.NegotiationResponse{}, &service.ValidationError{Field: "messages[0].role", Message: "bad"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "upstream bad status",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					Negotiate(gomock.Any(), gomock.Any()).
					Return(service.NegotiationResponse{}, &service.RelayError{Kind: service.ErrUpstreamBadStatus, Err: errors.New("500")})
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "upstream unavailable",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					Negotiate(gomock.Any(), gomock.Any()).
					Return(service.NegotiationResponse{}, &service.RelayError{Kind: service.ErrUpstreamUnavailable, Err: errors.New("refused")})
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "unexpected error",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					Negotiate(gomock.Any(), gomock.Any()).
					Return(service.NegotiationResponse{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockNegotiationService(ctrl)
			tt.mockSetup(mockService)
			handler := NewNegotiateHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/negotiate/non-streaming", encodeBody(t, tt.body))
			w := httptest.NewRecorder()

			handler.Buffered(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Buffered() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var resp NegotiateResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Buffered() invalid JSON: %v", err)
				}
				if resp.Text != tt.wantText {
					t.Errorf("Buffered() text = %v, want %v", resp.Text, tt.wantText)
				}
				return
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil || errResp.Error == "" {
				t.Errorf("Buffered() should return an error body, got %q", w.Body.String())
			}
		})
	}
}

func TestNegotiateHandler_Mock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockNegotiationService(ctrl)
	mockService.EXPECT().
		MockNegotiate(gomock.Any(), testServiceRequest).
		Return(service.NegotiationResponse{Text: "That's a fair offer! I can accept $90.00"}, nil)

	handler := NewNegotiateHandler(mockService)
	req := httptest.NewRequest(http.MethodPost, "/api/negotiate/mock", encodeBody(t, testBody))
	w := httptest.NewRecorder()

	handler.Mock(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Mock() status = %v, want %v", w.Code, http.StatusOK)
	}
	var resp NegotiateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Mock() invalid JSON: %v", err)
	}
	if !strings.Contains(resp.Text, "90.00") {
		t.Errorf("Mock() text = %v", resp.Text)
	}
}

func TestNegotiateHandler_Stream(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		mockSetup  func(*mocks.MockNegotiationService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "sentences as events",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					StreamNegotiate(gomock.Any(), testServiceRequest).
					Return(eventsOf([]string{"That's fair!", "Shall we proceed?"}, ""), nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "data: That's fair!\n\ndata: Shall we proceed?\n\n",
		},
		{
			name: "error event closes stream",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					StreamNegotiate(gomock.Any(), gomock.Any()).
					Return(eventsOf(nil, service.StreamErrorText), nil)
			},
			wantStatus: http.StatusOK, // SSE sends error in stream, not HTTP status
			wantBody:   "data: Error communicating with LLM\n\n",
		},
		{
			name: "multi-line sentence",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					StreamNegotiate(gomock.Any(), gomock.Any()).
					Return(eventsOf([]string{"Line one\nline two."}, ""), nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "data: Line one\ndata: line two.\n\n",
		},
		{
			name:       "invalid JSON body",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockNegotiationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: testBody,
			mockSetup: func(m *mocks.MockNegotiationService) {
				m.EXPECT().
					StreamNegotiate(gomock.Any(), gomock.Any()).
					Return(nil, &service.ValidationError{Field: "messages[0].role", Message: "bad"})
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockNegotiationService(ctrl)
			tt.mockSetup(mockService)
			handler := NewNegotiateHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/negotiate", encodeBody(t, tt.body))
			w := httptest.NewRecorder()

			handler.Stream(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Stream() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
				t.Errorf("Stream() Content-Type = %v, want text/event-stream", ct)
			}
			if got := w.Body.String(); got != tt.wantBody {
				t.Errorf("Stream() body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestNegotiateHandler_Stream_PassesRequestContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	type ctxKey struct{}
	mockService := mocks.NewMockNegotiationService(ctrl)
	mockService.EXPECT().
		StreamNegotiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req service.NegotiationRequest) (<-chan service.SentenceEvent, error) {
			if ctx.Value(ctxKey{}) != "marker" {
				t.Error("StreamNegotiate() should receive the request context")
			}
			return eventsOf(nil, ""), nil
		})

	handler := NewNegotiateHandler(mockService)
	req := httptest.NewRequest(http.MethodPost, "/api/negotiate", encodeBody(t, testBody))
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "marker"))

	handler.Stream(httptest.NewRecorder(), req)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, http.StatusBadRequest, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("writeError() status = %v, want %v", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("writeError() invalid JSON: %v", err)
	}

	if resp.Error != "test error" {
		t.Errorf("writeError() error = %v, want test error", resp.Error)
	}
}
