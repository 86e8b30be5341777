// Package vetting relays proofing decisions to the external vetting OP and
// classifies its answers. The relay is fire-once: no retries live here, a
// failed relay is surfaced to the operator while the audit record stays
// durably logged.
package vetting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"selegra/internal/proofing"
	pkgerrors "selegra/pkg/errors"
	"selegra/pkg/requestcontext"
)

// maxBodyLog bounds how much of a rejection body is logged.
const maxBodyLog = 512

// payload is the wire format the vetting OP expects.
type payload struct {
	Identity string `json:"identity"`
	QRCode   string `json:"qrcode"`
	Meta     meta   `json:"meta"`
}

type meta struct {
	Score           int             `json:"score"`
	ProofingMethod  proofing.Method `json:"proofing_method"`
	ProofingVersion string          `json:"proofing_version"`
}

// Client posts proofing decisions to the vetting endpoint, authenticating as
// the issuing RA application with a shared secret over HTTP Basic auth.
type Client struct {
	endpoint string
	appID    string
	secret   string
	http     *http.Client
	logger   *slog.Logger
}

// New constructs a relay client. timeout bounds each relay call; a call that
// never completes is classified as unreachable.
func New(endpoint, appID, secret string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		appID:    appID,
		secret:   secret,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Relay posts the proofing decision. A 200 means the OP accepted the
// evidence; any other status means the evidence is stale or invalid and the
// subject must restart verification; transport errors mean the OP could not
// be reached and the operator should retry later.
func (c *Client) Relay(ctx context.Context, rec proofing.Record) error {
	body, err := json.Marshal(payload{
		Identity: rec.Nin,
		QRCode:   rec.Opaque,
		Meta: meta{
			Score:           rec.CredibilityScore,
			ProofingMethod:  rec.Method,
			ProofingVersion: rec.ProofingVersion,
		},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, "encode vetting payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, "build vetting request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.appID, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRelayUnreachable,
			"verifieringstjänsten kunde inte nås, försök igen senare", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyLog))
	c.logger.WarnContext(ctx, "vetting endpoint rejected proofing",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", rec.ID,
		"status", resp.StatusCode,
		"body", string(snippet),
	)
	return pkgerrors.Wrap(pkgerrors.CodeRelayRejected,
		"QR-koden är ogiltig eller har gått ut, verifieringen måste startas om",
		fmt.Errorf("vetting endpoint returned %d", resp.StatusCode))
}
