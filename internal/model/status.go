package model

import "strings"

type ContractStatus string

const (
	ContractStatusDraft             ContractStatus = "DRAFT"
	ContractStatusActive            ContractStatus = "ACTIVE"
	ContractStatusPending           ContractStatus = "PENDING"
	ContractStatusRenewalInProgress ContractStatus = "RENEWAL_IN_PROGRESS"
	ContractStatusExpired           ContractStatus = "EXPIRED"
	ContractStatusTerminated        ContractStatus = "TERMINATED"
)

// ValidTransitions lists, per source status, every status it may move to.
var ValidTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusDraft:             {ContractStatusActive, ContractStatusTerminated},
	ContractStatusActive:            {ContractStatusRenewalInProgress, ContractStatusExpired, ContractStatusTerminated},
	ContractStatusPending:           {ContractStatusActive, ContractStatusRenewalInProgress, ContractStatusTerminated},
	ContractStatusRenewalInProgress: {ContractStatusActive, ContractStatusExpired, ContractStatusTerminated},
	ContractStatusExpired:           {ContractStatusRenewalInProgress, ContractStatusTerminated},
	ContractStatusTerminated:        {},
}

func (s ContractStatus) IsValid() bool {
	_, ok := ValidTransitions[s]
	return ok
}

func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	for _, allowed := range ValidTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s ContractStatus) IsTerminal() bool {
	return s.IsValid() && len(ValidTransitions[s]) == 0
}

// Label renders the status for messages, e.g. "RENEWAL IN PROGRESS".
func (s ContractStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func ParseContractStatus(raw string) (ContractStatus, bool) {
	status := ContractStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return status, status.IsValid()
}
