package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "selegra/pkg/errors"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Run("taxonomy error carries description", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteError(rr, pkgerrors.New(pkgerrors.CodeRelayRejected, "verifieringen avvisades"))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "relay_rejected", body["error"])
		assert.Equal(t, "verifieringen avvisades", body["error_description"])
	})

	t.Run("internal error omits description", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteError(rr, pkgerrors.Wrap(pkgerrors.CodeInternal, "index build failed", errors.New("boom")))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("plain error maps to internal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteError(rr, errors.New("database on fire"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "database on fire")
	})
}

func TestDecode(t *testing.T) {
	type form struct {
		Nin string `json:"nin"`
	}
	log := slog.New(slog.DiscardHandler)

	t.Run("valid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nin":"190102031234"}`))

		got, ok := Decode[form](rr, req, log, "req-1")
		require.True(t, ok)
		assert.Equal(t, "190102031234", got.Nin)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nin":`))

		_, ok := Decode[form](rr, req, log, "req-2")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_failed")
	})
}
