package model

import "time"

type MembershipStatus string

const (
	MembershipStatusNone   MembershipStatus = "none"
	MembershipStatusActive MembershipStatus = "active"
)

// Membership is the entitlement embedded in the user profile. It is
// overwritten on each confirmed purchase; the historical trail lives in
// MembershipRecord.
type Membership struct {
	Status      MembershipStatus
	PlanID      string
	PlanName    string
	StartDate   time.Time
	ExpiryDate  time.Time
	AmountPaise int64
	PaymentID   string
	OrderID     string
}

// ActiveAt reports whether the membership grants access at the given instant.
// Expiry is only ever evaluated at read time; nothing revokes memberships.
func (m *Membership) ActiveAt(t time.Time) bool {
	if m == nil || m.Status != MembershipStatusActive {
		return false
	}
	return t.Before(m.ExpiryDate)
}

// MembershipRecord is one append-only audit entry per successful payment.
// Its id is <userID>_<orderID>, which makes re-verification inserts no-ops.
type MembershipRecord struct {
	ID          string
	UserID      string
	OrderID     string
	PaymentID   string
	PlanID      string
	PlanName    string
	AmountPaise int64
	Status      MembershipStatus
	StartDate   time.Time
	ExpiryDate  time.Time
	CreatedAt   time.Time
}

func NewMembershipRecord(userID string, m *Membership, now time.Time) *MembershipRecord {
	return &MembershipRecord{
		ID:          userID + "_" + m.OrderID,
		UserID:      userID,
		OrderID:     m.OrderID,
		PaymentID:   m.PaymentID,
		PlanID:      m.PlanID,
		PlanName:    m.PlanName,
		AmountPaise: m.AmountPaise,
		Status:      m.Status,
		StartDate:   m.StartDate,
		ExpiryDate:  m.ExpiryDate,
		CreatedAt:   now,
	}
}
