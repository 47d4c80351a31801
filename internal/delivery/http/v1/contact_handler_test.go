package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"farm-contact-api/config"
	v1 "farm-contact-api/internal/delivery/http/v1"
	"farm-contact-api/internal/usecase"
	"farm-contact-api/pkg/email"
	"farm-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	siteOrigin  = "https://7afarm.com"
	validBody   = `{"name":"Jane","email":"jane@example.com","message":"Hello"}`
	upstreamErr = `{"errors":[{"message":"The provided authorization grant is invalid","field":null}]}`
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProvider is a SendGrid stand-in that counts calls and answers with a fixed status.
type fakeProvider struct {
	server *httptest.Server
	calls  atomic.Int32
	status int
	body   string
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{status: status, body: body}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		w.WriteHeader(p.status)
		_, _ = w.Write([]byte(p.body))
	}))
	t.Cleanup(p.server.Close)
	return p
}

type setup struct {
	apiKey       string
	contactEmail string
	corsMode     string
}

func newRouter(t *testing.T, provider *fakeProvider, s setup) *gin.Engine {
	t.Helper()
	if s.corsMode == "" {
		s.corsMode = config.CORSModeAllowList
	}
	cfg := &config.Config{
		ContactEmail:   s.contactEmail,
		MailFromEmail:  "noreply@7afarm.com",
		MailFromName:   "7A Farm Website",
		CORSMode:       s.corsMode,
		AllowedOrigins: config.DefaultAllowedOrigins,
		MaxBodyBytes:   1 << 10,
	}
	sender := email.NewSendGridSender(s.apiKey, provider.server.URL, time.Second)
	uc := usecase.NewContactUsecase(sender, validation.New(), nil, usecase.ContactConfig{
		ContactEmail: cfg.ContactEmail,
		FromEmail:    cfg.MailFromEmail,
		FromName:     cfg.MailFromName,
	})
	return v1.NewRouter(v1.RouterDeps{
		ContactUC: uc,
		HealthUC:  usecase.NewHealthUsecase(sender, cfg.ContactEmail),
		Config:    cfg,
	})
}

func configured() setup {
	return setup{apiKey: "SG.test", contactEmail: "owner@example.com"}
}

func post(router http.Handler, origin, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder, origin string) {
	t.Helper()
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestSubmitContact_Success(t *testing.T) {
	for _, status := range []int{http.StatusAccepted, http.StatusOK} {
		provider := newFakeProvider(t, status, "")
		router := newRouter(t, provider, configured())

		w := post(router, siteOrigin, validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assertCORS(t, w, siteOrigin)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, int32(1), provider.calls.Load())
	}
}

func TestSubmitContact_Preflight(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")
	router := newRouter(t, provider, configured())

	for _, origin := range []string{siteOrigin, "https://evil.example", ""} {
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, origin)
		assert.Empty(t, w.Body.String(), origin)
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	}
	assert.Zero(t, provider.calls.Load())
}

func TestSubmitContact_OriginPolicy(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")
	router := newRouter(t, provider, configured())

	t.Run("Should echo allow-listed origin", func(t *testing.T) {
		for _, origin := range config.DefaultAllowedOrigins {
			w := post(router, origin, validBody)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
		}
	})

	t.Run("Should allow local development origins", func(t *testing.T) {
		for _, origin := range []string{"http://localhost:8788", "http://127.0.0.1:3000"} {
			w := post(router, origin, validBody)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("Should forbid unknown and missing origins", func(t *testing.T) {
		before := provider.calls.Load()
		for _, origin := range []string{"https://evil.example", "https://7afarm.com.evil.example", ""} {
			w := post(router, origin, validBody)
			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.JSONEq(t, `{"error":"Forbidden"}`, w.Body.String())
			assertCORS(t, w, "https://www.7afarm.com")
		}
		assert.Equal(t, before, provider.calls.Load())
	})

	t.Run("Open policy should allow anything", func(t *testing.T) {
		s := configured()
		s.corsMode = config.CORSModeOpen
		open := newRouter(t, provider, s)

		w := post(open, "https://anywhere.example", validBody)
		assert.Equal(t, http.StatusOK, w.Code)
		assertCORS(t, w, "*")

		w = post(open, "", validBody)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSubmitContact_Honeypot(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")
	router := newRouter(t, provider, configured())

	bodies := []string{
		`{"name":"Jane","email":"jane@example.com","message":"Hello","website":"http://spam.example"}`,
		`{"website":"x"}`,
		`{"name":"Jane","email":"jane@example.com","message":"Hello","website":1}`,
		`{"website":{}}`,
	}
	for _, body := range bodies {
		w := post(router, siteOrigin, body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	}
	assert.Zero(t, provider.calls.Load())
}

func TestSubmitContact_Validation(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")
	router := newRouter(t, provider, configured())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty object", `{}`, v1.MsgMissingFields},
		{"missing name", `{"email":"jane@example.com","message":"Hi"}`, v1.MsgMissingFields},
		{"empty email", `{"name":"Jane","email":"","message":"Hi"}`, v1.MsgMissingFields},
		{"null message", `{"name":"Jane","email":"jane@example.com","message":null}`, v1.MsgMissingFields},
		{"no at sign", `{"name":"Jane","email":"no-at-sign","message":"Hi"}`, v1.MsgInvalidEmail},
		{"no tld", `{"name":"Jane","email":"a@b","message":"Hi"}`, v1.MsgInvalidEmail},
		{"whitespace", `{"name":"Jane","email":"a @b.com","message":"Hi"}`, v1.MsgInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(router, siteOrigin, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["error"])
			assertCORS(t, w, siteOrigin)
		})
	}

	w := post(router, siteOrigin, `{"name":"Jane","email":"a@b.co","message":"Hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitContact_NotConfigured(t *testing.T) {
	for name, s := range map[string]setup{
		"missing api key":       {contactEmail: "owner@example.com"},
		"missing contact email": {apiKey: "SG.test"},
	} {
		t.Run(name, func(t *testing.T) {
			provider := newFakeProvider(t, http.StatusAccepted, "")
			router := newRouter(t, provider, s)

			w := post(router, siteOrigin, validBody)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, v1.MsgNotConfigured, decode(t, w)["error"])
			assertCORS(t, w, siteOrigin)
			assert.Zero(t, provider.calls.Load())
		})
	}
}

func TestSubmitContact_UpstreamRejected(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		provider := newFakeProvider(t, status, upstreamErr)
		router := newRouter(t, provider, configured())

		w := post(router, siteOrigin, validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"`+v1.MsgSendFailed+`"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "authorization grant")
		assertCORS(t, w, siteOrigin)
		assert.Equal(t, int32(1), provider.calls.Load())
	}
}

func TestSubmitContact_MalformedBody(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")
	router := newRouter(t, provider, configured())

	bodies := []string{
		`{"name":`,
		``,
		`not json`,
		`{"name":"` + strings.Repeat("a", 2048) + `"}`,
		validBody + ` trailing`,
		validBody + validBody,
		`null`,
		`[]`,
		`"text"`,
	}
	for _, body := range bodies {
		w := post(router, siteOrigin, body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "An unexpected error occurred. Please try calling us instead.", decode(t, w)["error"])
		assertCORS(t, w, siteOrigin)
	}
	assert.Zero(t, provider.calls.Load())
}

func TestSubmitContact_TransportFailure(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")
	router := newRouter(t, provider, configured())
	provider.server.Close()

	w := post(router, siteOrigin, validBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred. Please try calling us instead.", decode(t, w)["error"])
}

func TestHealth(t *testing.T) {
	provider := newFakeProvider(t, http.StatusAccepted, "")

	tests := []struct {
		name  string
		setup setup
		want  string
	}{
		{"configured", configured(), `{"success":true,"status":"ok","provider":"sendgrid","configured":true}`},
		{"missing key", setup{contactEmail: "owner@example.com"}, `{"success":true,"status":"degraded","provider":"sendgrid","configured":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, provider, tt.setup)

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil).WithContext(context.Background())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
	assert.Zero(t, provider.calls.Load())
}
