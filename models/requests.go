// models/requests.go

package models

// CreatePatientRequest registers a root patient (no referrer). Webinar
// batch is an optional grouping tag set when patients come in from a
// webinar funnel.
type CreatePatientRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	WebinarBatchID string `json:"webinar_batch_id,omitempty"`
}

// ReferralRegisterRequest registers a patient under an existing coupon code.
type ReferralRegisterRequest struct {
	CouponCode string `json:"coupon_code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
}

// CompleteConsultationRequest marks a consultation done, located by phone.
type CompleteConsultationRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// CompleteMedicineRequest marks medicine done and triggers commission
// distribution over the combined bill.
type CompleteMedicineRequest struct {
	Phone              string  `json:"phone" validate:"required"`
	ConsultationAmount float64 `json:"consultation_amount"`
	MedicineAmount     float64 `json:"medicine_amount"`
}

// ClaimCommissionRequest identifies the claiming patient; the claim is
// rejected unless it matches the transaction's beneficiary.
type ClaimCommissionRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
}

// AdminLoginRequest exchanges the shared admin credential for a session
// token.
type AdminLoginRequest struct {
	Token string `json:"token" validate:"required"`
}
