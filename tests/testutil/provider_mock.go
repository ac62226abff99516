package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockReview is one review served by the mock provider API, in the Google
// Business Profile wire shape.
type MockReview struct {
	ReviewID   string
	Author     string
	StarRating string // ONE..FIVE
	Comment    string
	UpdateTime string // RFC3339
}

// MockTokenResponse configures the mock token endpoint for one refresh token.
type MockTokenResponse struct {
	AccessToken string
	ExpiresIn   int    // seconds, default 3600
	Error       string // OAuth error code; when set the endpoint returns 400
}

// MockProviderAPI simulates the provider API surface the sync pipeline talks
// to: review listing, OAuth token refresh and reply publishing. Point a
// provider client at BaseURL/TokenURL and drive it like the real thing.
type MockProviderAPI struct {
	Server *httptest.Server

	mu sync.Mutex

	// Reviews are served on any GET .../reviews path.
	Reviews []MockReview

	// ValidAccessTokens are accepted as bearer tokens; anything else is 401.
	ValidAccessTokens map[string]bool

	// RefreshResponses maps refresh token to the token endpoint behavior.
	RefreshResponses map[string]MockTokenResponse

	RefreshCalls int
	FetchCalls   int

	// PublishedReplies maps the reply path to the posted comment.
	PublishedReplies map[string]string
}

// NewMockProviderAPI starts the mock server.
func NewMockProviderAPI() *MockProviderAPI {
	m := &MockProviderAPI{
		ValidAccessTokens: make(map[string]bool),
		RefreshResponses:  make(map[string]MockTokenResponse),
		PublishedReplies:  make(map[string]string),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Close shuts the server down.
func (m *MockProviderAPI) Close() {
	m.Server.Close()
}

// BaseURL is the API endpoint for provider clients.
func (m *MockProviderAPI) BaseURL() string { return m.Server.URL }

// TokenURL is the token endpoint for provider clients.
func (m *MockProviderAPI) TokenURL() string { return m.Server.URL + "/token" }

func (m *MockProviderAPI) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/token":
		m.handleToken(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/reviews"):
		m.handleReviews(w, r)
	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/reply"):
		m.handleReply(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockProviderAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshCalls++

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	response, ok := m.RefreshResponses[r.PostFormValue("refresh_token")]
	if !ok || response.Error != "" {
		errCode := response.Error
		if errCode == "" {
			errCode = "invalid_grant"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": errCode})
		return
	}

	expiresIn := response.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}
	m.ValidAccessTokens[response.AccessToken] = true

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": response.AccessToken,
		"expires_in":   expiresIn,
		"token_type":   "Bearer",
	})
}

func (m *MockProviderAPI) authorized(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return m.ValidAccessTokens[token]
}

func (m *MockProviderAPI) handleReviews(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++

	if !m.authorized(r) {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	items := make([]map[string]interface{}, 0, len(m.Reviews))
	for _, review := range m.Reviews {
		items = append(items, map[string]interface{}{
			"reviewId":   review.ReviewID,
			"reviewer":   map[string]string{"displayName": review.Author},
			"starRating": review.StarRating,
			"comment":    review.Comment,
			"updateTime": review.UpdateTime,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"reviews": items})
}

func (m *MockProviderAPI) handleReply(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.authorized(r) {
		http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var payload struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	m.PublishedReplies[r.URL.Path] = payload.Comment

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"comment": payload.Comment})
}

// PublishCount returns how many replies have been published.
func (m *MockProviderAPI) PublishCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PublishedReplies)
}
