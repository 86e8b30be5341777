// Package proofing implements the identity-proofing submission pipeline:
// evidence decoding, field validation, credibility scoring, audit record
// construction, durable logging, and the relay to the vetting OP.
package proofing

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// Evidence decode failures. Callers only need pass/fail; the distinct errors
// exist for logging and tests.
var (
	ErrEvidenceEmpty     = errors.New("empty QR payload")
	ErrEvidenceVersion   = errors.New("unsupported QR payload version")
	ErrEvidenceMalformed = errors.New("QR payload is not valid JSON")
	ErrEvidenceKeys      = errors.New("QR payload missing nonce or token")
)

// evidenceVersion is the single currently supported payload version marker.
const evidenceVersion = '1'

// DecodeEvidence checks the structural well-formedness of a scanned QR
// payload: a leading version marker followed by a JSON object carrying both
// nonce and token keys. Values are not validated here; the raw text is kept
// verbatim by the caller for the audit record and the decoded structure is
// discarded.
func DecodeEvidence(raw string) error {
	// Scanners inject line breaks; strip all whitespace before parsing.
	payload := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if payload == "" {
		return ErrEvidenceEmpty
	}
	if payload[0] != evidenceVersion {
		return ErrEvidenceVersion
	}

	var bundle struct {
		Nonce *string `json:"nonce"`
		Token *string `json:"token"`
	}
	if err := json.Unmarshal([]byte(payload[1:]), &bundle); err != nil {
		return ErrEvidenceMalformed
	}
	if bundle.Nonce == nil || bundle.Token == nil {
		return ErrEvidenceKeys
	}
	return nil
}
