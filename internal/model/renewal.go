package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RenewalSubStatus string

const (
	RenewalDocumentCollection RenewalSubStatus = "DOCUMENT_COLLECTION"
	RenewalLegalReview        RenewalSubStatus = "LEGAL_REVIEW"
	RenewalTechnicalReview    RenewalSubStatus = "TECHNICAL_REVIEW"
	RenewalFinancialApproval  RenewalSubStatus = "FINANCIAL_APPROVAL"
	RenewalManagementApproval RenewalSubStatus = "MANAGEMENT_APPROVAL"
	RenewalAwaitingSignature  RenewalSubStatus = "AWAITING_SIGNATURE"
	RenewalFinalProcessing    RenewalSubStatus = "FINAL_PROCESSING"
)

// RenewalSubStatuses is the advisory order of the renewal workflow.
// Nothing enforces it: any sub-status may follow any other.
var RenewalSubStatuses = []RenewalSubStatus{
	RenewalDocumentCollection,
	RenewalLegalReview,
	RenewalTechnicalReview,
	RenewalFinancialApproval,
	RenewalManagementApproval,
	RenewalAwaitingSignature,
	RenewalFinalProcessing,
}

func (s RenewalSubStatus) IsValid() bool {
	for _, known := range RenewalSubStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s RenewalSubStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func ParseRenewalSubStatus(raw string) (RenewalSubStatus, bool) {
	sub := RenewalSubStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return sub, sub.IsValid()
}

type ContractRenewal struct {
	ID                 uuid.UUID        `json:"id"`
	ContractID         uuid.UUID        `json:"contract_id"`
	SubStatus          RenewalSubStatus `json:"sub_status"`
	DocumentsReceived  bool             `json:"documents_received"`
	LegalApproved      bool             `json:"legal_approved"`
	FinancialApproved  bool             `json:"financial_approved"`
	TechnicalApproved  bool             `json:"technical_approved"`
	ManagementApproved bool             `json:"management_approved"`
	SignatureReceived  bool             `json:"signature_received"`
	ProposedStartDate  time.Time        `json:"proposed_start_date"`
	ProposedEndDate    time.Time        `json:"proposed_end_date"`
	ProposedRevenue    *decimal.Decimal `json:"proposed_revenue"`
	Comments           *string          `json:"comments"`
	InternalNotes      *string          `json:"internal_notes"`
	CreatedByID        *uuid.UUID       `json:"created_by_id"`
	LastModifiedByID   *uuid.UUID       `json:"last_modified_by_id"`
	CompletedAt        *time.Time       `json:"completed_at"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// RenewalUpdate mirrors ContractUpdate for contract_renewals.
type RenewalUpdate struct {
	SubStatus          *RenewalSubStatus
	DocumentsReceived  *bool
	LegalApproved      *bool
	FinancialApproved  *bool
	TechnicalApproved  *bool
	ManagementApproved *bool
	SignatureReceived  *bool
	Comments           *string
	InternalNotes      *string
	LastModifiedByID   *uuid.UUID
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

// EnterSubStatus builds the update for moving a renewal into sub. Entering a
// sub-status sets exactly one approval flag.
func EnterSubStatus(sub RenewalSubStatus) RenewalUpdate {
	update := RenewalUpdate{SubStatus: &sub}
	yes, no := true, false
	switch sub {
	case RenewalDocumentCollection:
		update.DocumentsReceived = &yes
	case RenewalLegalReview:
		update.LegalApproved = &yes
	case RenewalTechnicalReview:
		update.TechnicalApproved = &yes
	case RenewalFinancialApproval:
		update.FinancialApproved = &yes
	case RenewalManagementApproval:
		update.ManagementApproved = &yes
	case RenewalAwaitingSignature:
		update.SignatureReceived = &no
	case RenewalFinalProcessing:
		update.SignatureReceived = &yes
	}
	return update
}
