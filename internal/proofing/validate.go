package proofing

import (
	"regexp"
	"time"
)

// Field-level messages are the Swedish strings shown to RA staff; rendering
// stays at the transport edge, the pipeline only collects them.
const (
	msgRequired        = "Obligatoriskt fält"
	msgInvalidQR       = "Ogiltig QR-kod"
	msgInvalidNin      = "Ogiltigt personnummer"
	msgInvalidExpiry   = "Ogiltigt utgångsdatum, använd formatet ÅÅÅÅ-MM-DD"
	msgInvalidCard     = "Ogiltigt kortnummer"
	msgInvalidRef      = "Ogiltigt referensnummer"
	msgInvalidPassport = "Ogiltigt passnummer"
)

// expiryDateLayout is the single accepted expiry date format.
const expiryDateLayout = "2006-01-02"

// ninPattern matches a 12-digit national identity number:
// century+year, month, day, then four serial digits.
var ninPattern = regexp.MustCompile(`^(18|19|20)\d{2}(0[1-9]|1[0-2])\d{2}\d{4}$`)

// FieldError reports one failing form field. All validators run on every
// submission so the operator sees every problem in one round trip.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidNin reports whether s is a well-formed national identity number. The
// shape check and the Luhn checksum over the last ten digits (serial plus
// check digit; the century prefix is excluded) must both pass.
func ValidNin(s string) bool {
	return ninPattern.MatchString(s) && luhnValid(s[2:])
}

// ValidFixedDigits reports whether s is exactly n ASCII digits, no separators.
func ValidFixedDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseExpiryDate parses s strictly against the fixed date layout.
func ParseExpiryDate(s string) (time.Time, bool) {
	t, err := time.Parse(expiryDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// luhnValid computes the mod-10 checksum over a digit string, doubling every
// second digit from the right.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// validate runs the decoder and every field validator for the submission's
// variant, collecting all failures. The parsed expiry date is returned so the
// pipeline does not parse twice.
func validate(sub Submission) (time.Time, []FieldError) {
	var fieldErrs []FieldError
	fail := func(field, message string) {
		fieldErrs = append(fieldErrs, FieldError{Field: field, Message: message})
	}

	switch {
	case sub.QRCode == "":
		fail("qr_code", msgRequired)
	case DecodeEvidence(sub.QRCode) != nil:
		fail("qr_code", msgInvalidQR)
	}

	switch {
	case sub.Nin == "":
		fail("nin", msgRequired)
	case !ValidNin(sub.Nin):
		fail("nin", msgInvalidNin)
	}

	var expiry time.Time
	if sub.ExpiryDate == "" {
		fail("expiry_date", msgRequired)
	} else if parsed, ok := ParseExpiryDate(sub.ExpiryDate); ok {
		expiry = parsed
	} else {
		fail("expiry_date", msgInvalidExpiry)
	}

	switch sub.Method {
	case MethodIDCard:
		if sub.CardNumber == "" {
			fail("card_number", msgRequired)
		}
	case MethodDriversLicense:
		switch {
		case sub.ReferenceNumber == "":
			fail("reference_number", msgRequired)
		case !ValidFixedDigits(sub.ReferenceNumber, 9):
			fail("reference_number", msgInvalidRef)
		}
	case MethodPassport:
		switch {
		case sub.PassportNumber == "":
			fail("passport_number", msgRequired)
		case !ValidFixedDigits(sub.PassportNumber, 8):
			fail("passport_number", msgInvalidPassport)
		}
	case MethodNationalIDCard:
		switch {
		case sub.CardNumber == "":
			fail("card_number", msgRequired)
		case !ValidFixedDigits(sub.CardNumber, 8):
			fail("card_number", msgInvalidCard)
		}
	}

	return expiry, fieldErrs
}
