package proofing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission(method Method) Submission {
	sub := Submission{
		Method:             method,
		QRCode:             `1{"token":"a_token","nonce":"a_nonce"}`,
		Nin:                "190102031234",
		ExpiryDate:         "2030-01-01",
		OcularConfirmation: true,
	}
	switch method {
	case MethodIDCard, MethodNationalIDCard:
		sub.CardNumber = "12345678"
	case MethodDriversLicense:
		sub.ReferenceNumber = "123456789"
	case MethodPassport:
		sub.PassportNumber = "12345678"
	}
	return sub
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("variant field follows method", func(t *testing.T) {
		for _, tc := range []struct {
			method Method
			check  func(t *testing.T, rec Record)
		}{
			{MethodIDCard, func(t *testing.T, rec Record) { assert.Equal(t, "12345678", rec.CardNumber) }},
			{MethodNationalIDCard, func(t *testing.T, rec Record) { assert.Equal(t, "12345678", rec.CardNumber) }},
			{MethodDriversLicense, func(t *testing.T, rec Record) { assert.Equal(t, "123456789", rec.ReferenceNumber) }},
			{MethodPassport, func(t *testing.T, rec Record) { assert.Equal(t, "12345678", rec.PassportNumber) }},
		} {
			rec, err := NewRecord("test_ra_app", "op@example.org", validSubmission(tc.method), expiry, 100, "2018v1", now)
			require.NoError(t, err, "method %s", tc.method)
			assert.Equal(t, tc.method, rec.Method)
			tc.check(t, rec)
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, now, rec.CreatedAt)
			assert.Equal(t, "test_ra_app", rec.CreatedBy)
			assert.Equal(t, "op@example.org", rec.VerifiedBy)
		}
	})

	t.Run("raw qr payload is preserved verbatim", func(t *testing.T) {
		sub := validSubmission(MethodPassport)
		rec, err := NewRecord("test_ra_app", "op@example.org", sub, expiry, 100, "2018v1", now)
		require.NoError(t, err)
		assert.Equal(t, sub.QRCode, rec.Opaque)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		sub := validSubmission(MethodPassport)
		sub.Method = "telepathy"
		_, err := NewRecord("test_ra_app", "op@example.org", sub, expiry, 100, "2018v1", now)
		assert.Error(t, err)
	})
}

func TestRecordValidate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	valid, err := NewRecord("test_ra_app", "op@example.org", validSubmission(MethodDriversLicense), expiry, 100, "2018v1", now)
	require.NoError(t, err)

	t.Run("missing required fields fail closed", func(t *testing.T) {
		mutations := map[string]func(rec *Record){
			"verified_by":      func(rec *Record) { rec.VerifiedBy = "" },
			"created_by":       func(rec *Record) { rec.CreatedBy = "" },
			"nin":              func(rec *Record) { rec.Nin = "" },
			"opaque":           func(rec *Record) { rec.Opaque = "" },
			"expiry_date":      func(rec *Record) { rec.ExpiryDate = time.Time{} },
			"proofing_version": func(rec *Record) { rec.ProofingVersion = "" },
			"reference_number": func(rec *Record) { rec.ReferenceNumber = "" },
		}
		for field, mutate := range mutations {
			rec := valid
			mutate(&rec)
			assert.Error(t, rec.Validate(), "field %s", field)
		}
	})

	t.Run("score zero is a valid record", func(t *testing.T) {
		rec := valid
		rec.CredibilityScore = 0
		assert.NoError(t, rec.Validate())
	})

	t.Run("score out of range is rejected", func(t *testing.T) {
		rec := valid
		rec.CredibilityScore = 101
		assert.Error(t, rec.Validate())
	})
}
