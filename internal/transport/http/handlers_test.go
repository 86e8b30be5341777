package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selegra/internal/auditlog"
	"selegra/internal/federation"
	"selegra/internal/operator"
	"selegra/internal/proofing"
	"selegra/internal/vetting"
)

const (
	testEPPN = "test-user@localhost"
	testIDP  = "https://idp.example.org/idp"
	al2      = "http://www.swamid.se/policy/assurance/al2"
	mfa      = "https://refeds.org/profile/mfa"
)

type fixture struct {
	router    http.Handler
	audit     *auditlog.InMemoryStore
	whitelist *operator.InMemoryStore
	vettingOK *httptest.Server
	relayHits *int
}

type healthProbe struct{ err error }

func (p healthProbe) Health(context.Context) error { return p.err }

// newFixture assembles the full stack with an in-memory whitelist and audit
// log and a scripted vetting endpoint.
func newFixture(t *testing.T, vettingStatus int, vettingDelay time.Duration) *fixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)

	hits := 0
	vettingSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if vettingDelay > 0 {
			time.Sleep(vettingDelay)
		}
		w.WriteHeader(vettingStatus)
	}))
	t.Cleanup(vettingSrv.Close)

	whitelistStore := operator.NewInMemoryStore()
	require.NoError(t, whitelistStore.Add(t.Context(), testEPPN))

	audit := auditlog.NewInMemoryStore()
	relay := vetting.New(vettingSrv.URL, "test_ra_app", "s3cret", 50*time.Millisecond, log)
	pipeline := proofing.NewService(audit, relay, "test_ra_app", "2018v1", log, nil)

	gate := federation.NewAssuranceGate(federation.Policy{
		AL2Assurances:     []string{al2},
		AL2IDPExceptions:  []string{"https://legacy-idp.example.org/idp"},
		MFAContextClasses: []string{mfa},
	}, log)

	router := NewRouter(
		NewHandler(pipeline, log),
		NewHealthHandler(healthProbe{}, log),
		gate,
		operator.NewService(whitelistStore, nil, log),
		log,
		nil,
	)

	return &fixture{
		router:    router,
		audit:     audit,
		whitelist: whitelistStore,
		vettingOK: vettingSrv,
		relayHits: &hits,
	}
}

func authedRequest(t *testing.T, path string, body map[string]any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(federation.HeaderEPPN, testEPPN)
	req.Header.Set(federation.HeaderGivenName, "Test")
	req.Header.Set(federation.HeaderSurname, "User")
	req.Header.Set(federation.HeaderDisplayName, "Test User")
	req.Header.Set(federation.HeaderIdentityProvider, testIDP)
	req.Header.Set(federation.HeaderAssurance, al2)
	req.Header.Set(federation.HeaderAuthnContextClass, mfa)
	return req
}

func passportBody() map[string]any {
	return map[string]any{
		"qr_code":             `1{"token":"a_token","nonce":"a_nonce"}`,
		"nin":                 "190102031234",
		"expiry_date":         time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"passport_number":     "12345678",
		"ocular_confirmation": true,
	}
}

func TestPassportSubmissionAccepted(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, authedRequest(t, "/passport", passportBody()))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Verifiering mottagen", resp["message"])
	assert.NotEmpty(t, resp["record_id"])

	require.Equal(t, 1, f.audit.Count())
	rec := f.audit.All()[0]
	assert.Equal(t, proofing.MethodPassport, rec.Method)
	assert.Equal(t, 100, rec.CredibilityScore)
	assert.Equal(t, testEPPN, rec.VerifiedBy)
	assert.Equal(t, 1, *f.relayHits)
}

func TestVettingTimeoutStillKeepsAuditRecord(t *testing.T) {
	f := newFixture(t, http.StatusOK, 200*time.Millisecond)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, authedRequest(t, "/passport", passportBody()))

	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	// The persist happened before the relay attempt.
	assert.Equal(t, 1, f.audit.Count())
}

func TestVettingRejectionReportsRestart(t *testing.T) {
	f := newFixture(t, http.StatusBadRequest, 0)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, authedRequest(t, "/passport", passportBody()))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, 1, f.audit.Count())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "relay_rejected", resp["error"])
}

func TestValidationErrorsListEveryField(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, authedRequest(t, "/passport", map[string]any{
		"qr_code": "test",
		"nin":     "test",
	}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp struct {
		Error  string                `json:"error"`
		Fields []proofing.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Len(t, resp.Fields, 4) // qr_code, nin, expiry_date, passport_number

	assert.Equal(t, 0, f.audit.Count())
	assert.Equal(t, 0, *f.relayHits)
}

func TestRequestWithoutEppnIsDenied(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	raw, _ := json.Marshal(passportBody())
	req := httptest.NewRequest(http.MethodPost, "/passport", bytes.NewReader(raw))

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, f.audit.Count())
	assert.Equal(t, 0, *f.relayHits)
}

func TestNonWhitelistedOperatorIsDenied(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	req := authedRequest(t, "/passport", passportBody())
	req.Header.Set(federation.HeaderEPPN, "intruder@localhost")

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, f.audit.Count())
}

func TestAL2ExceptionBypassesAssuranceCheck(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	req := authedRequest(t, "/passport", passportBody())
	req.Header.Set(federation.HeaderIdentityProvider, "https://legacy-idp.example.org/idp")
	req.Header.Del(federation.HeaderAssurance)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, f.audit.Count())
}

func TestMissingMFAContextIsDenied(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	req := authedRequest(t, "/passport", passportBody())
	req.Header.Del(federation.HeaderAuthnContextClass)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, f.audit.Count())
}

func TestAllVariantEndpoints(t *testing.T) {
	f := newFixture(t, http.StatusOK, 0)

	cases := map[string]map[string]any{
		"/id-card":          {"card_number": "SE1234567"},
		"/drivers-license":  {"reference_number": "123456789"},
		"/passport":         {"passport_number": "12345678"},
		"/national-id-card": {"card_number": "12345678"},
	}
	for path, extra := range cases {
		body := passportBody()
		delete(body, "passport_number")
		for k, v := range extra {
			body[k] = v
		}

		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, authedRequest(t, path, body))
		assert.Equal(t, http.StatusOK, rr.Code, "%s: %s", path, rr.Body.String())
	}
	assert.Equal(t, len(cases), f.audit.Count())
}

func TestHealthEndpoint(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	t.Run("store reachable", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h := NewHealthHandler(healthProbe{}, log)
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status/healthy", nil))

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "STATUS_OK", resp["status"])
	})

	t.Run("store down", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h := NewHealthHandler(healthProbe{err: errors.New("no reachable servers")}, log)
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status/healthy", nil))

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "STATUS_FAIL", resp["status"])
		assert.Equal(t, "mongodb check failed", resp["reason"])
	})
}
