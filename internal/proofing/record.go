package proofing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Method tags the document variant a proofing record was produced from.
type Method string

const (
	MethodIDCard         Method = "id_card"
	MethodDriversLicense Method = "drivers_license"
	MethodPassport       Method = "passport"
	MethodNationalIDCard Method = "national_id_card"
)

// Record is the append-only audit entity for one proofing decision. One
// variant field is set depending on Method; everything else is shared. A
// record is constructed once per submission after validation passes and is
// immutable thereafter.
type Record struct {
	ID                 string    `bson:"_id" json:"id"`
	CreatedAt          time.Time `bson:"created_ts" json:"created_ts"`
	CreatedBy          string    `bson:"created_by" json:"created_by"`
	VerifiedBy         string    `bson:"verified_by" json:"verified_by"`
	Nin                string    `bson:"nin" json:"nin"`
	Opaque             string    `bson:"opaque" json:"opaque"`
	OcularConfirmation bool      `bson:"ocular_confirmation" json:"ocular_confirmation"`
	ExpiryDate         time.Time `bson:"expiry_date" json:"expiry_date"`
	CredibilityScore   int       `bson:"credibility_score" json:"credibility_score"`
	Method             Method    `bson:"proofing_method" json:"proofing_method"`
	ProofingVersion    string    `bson:"proofing_version" json:"proofing_version"`

	CardNumber      string `bson:"card_number,omitempty" json:"card_number,omitempty"`
	ReferenceNumber string `bson:"reference_number,omitempty" json:"reference_number,omitempty"`
	PassportNumber  string `bson:"passport_number,omitempty" json:"passport_number,omitempty"`
}

// recordBase fills the fields shared by every variant.
func recordBase(createdBy string, verifiedBy string, sub Submission, expiry time.Time, score int, version string, now time.Time) Record {
	return Record{
		ID:                 uuid.NewString(),
		CreatedAt:          now,
		CreatedBy:          createdBy,
		VerifiedBy:         verifiedBy,
		Nin:                sub.Nin,
		Opaque:             sub.QRCode,
		OcularConfirmation: sub.OcularConfirmation,
		ExpiryDate:         expiry,
		CredibilityScore:   score,
		ProofingVersion:    version,
	}
}

// NewRecord constructs the variant record for the submission's method.
func NewRecord(createdBy, verifiedBy string, sub Submission, expiry time.Time, score int, version string, now time.Time) (Record, error) {
	rec := recordBase(createdBy, verifiedBy, sub, expiry, score, version, now)
	rec.Method = sub.Method
	switch sub.Method {
	case MethodIDCard, MethodNationalIDCard:
		rec.CardNumber = sub.CardNumber
	case MethodDriversLicense:
		rec.ReferenceNumber = sub.ReferenceNumber
	case MethodPassport:
		rec.PassportNumber = sub.PassportNumber
	default:
		return Record{}, fmt.Errorf("unknown proofing method %q", sub.Method)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Validate checks that every required field for the record's variant is
// present and non-zero. An invalid record must never reach persistence; the
// audit log re-checks before writing.
func (r Record) Validate() error {
	required := map[string]bool{
		"id":               r.ID != "",
		"created_ts":       !r.CreatedAt.IsZero(),
		"created_by":       r.CreatedBy != "",
		"verified_by":      r.VerifiedBy != "",
		"nin":              r.Nin != "",
		"opaque":           r.Opaque != "",
		"expiry_date":      !r.ExpiryDate.IsZero(),
		"proofing_version": r.ProofingVersion != "",
	}
	switch r.Method {
	case MethodIDCard, MethodNationalIDCard:
		required["card_number"] = r.CardNumber != ""
	case MethodDriversLicense:
		required["reference_number"] = r.ReferenceNumber != ""
	case MethodPassport:
		required["passport_number"] = r.PassportNumber != ""
	default:
		return fmt.Errorf("unknown proofing method %q", r.Method)
	}
	for field, present := range required {
		if !present {
			return fmt.Errorf("proofing record missing required field %s", field)
		}
	}
	if r.CredibilityScore < 0 || r.CredibilityScore > 100 {
		return fmt.Errorf("credibility score %d out of range", r.CredibilityScore)
	}
	return nil
}
