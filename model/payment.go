package model

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentType is what a payment is for.
type PaymentType string

const (
	PaymentRent        PaymentType = "RENT"
	PaymentDeposit     PaymentType = "DEPOSIT"
	PaymentMaintenance PaymentType = "MAINTENANCE"
	PaymentOther       PaymentType = "OTHER"
)

var paymentTypes = []PaymentType{PaymentRent, PaymentDeposit, PaymentMaintenance, PaymentOther}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentLate      PaymentStatus = "LATE"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

var paymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentLate, PaymentCancelled}

// Payment is an amount owed by a resident for an apartment.
type Payment struct {
	Base
	Type          PaymentType    `json:"type" gorm:"size:20;not null;index"`
	Amount        float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description   string         `json:"description" gorm:"size:255;not null"`
	PaymentDate   datatypes.Date `json:"paymentDate" gorm:"not null;index"`
	DueDate       datatypes.Date `json:"dueDate" gorm:"not null;index"`
	Status        PaymentStatus  `json:"status" gorm:"size:20;not null;index"`
	ResidentID    uint           `json:"residentId" gorm:"not null;index"`
	Resident      *User          `json:"resident,omitempty" gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE"`
	ApartmentID   uint           `json:"apartmentId" gorm:"not null;index"`
	Apartment     *Apartment     `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
	TransactionID string         `json:"transactionId,omitempty" gorm:"size:100"`
	PaymentMethod string         `json:"paymentMethod,omitempty" gorm:"size:50"`
}

// NewPayment returns a pending rent payment. The payment date starts equal to
// the due date and is replaced when the payment is settled.
func NewPayment(residentID, apartmentID uint, amount float64, description string, due datatypes.Date) *Payment {
	return &Payment{
		Type:        PaymentRent,
		Amount:      amount,
		Description: description,
		PaymentDate: due,
		DueDate:     due,
		Status:      PaymentPending,
		ResidentID:  residentID,
		ApartmentID: apartmentID,
	}
}

func (p *Payment) Validate() error {
	return firstError(
		oneOf("type", p.Type, paymentTypes),
		nonNegative("amount", p.Amount),
		required("description", p.Description, 255),
		date("paymentDate", p.PaymentDate),
		date("dueDate", p.DueDate),
		oneOf("status", p.Status, paymentStatuses),
		reference("residentId", p.ResidentID),
		reference("apartmentId", p.ApartmentID),
		maxLen("transactionId", p.TransactionID, 100),
		maxLen("paymentMethod", p.PaymentMethod, 50),
	)
}

// MarkPaid settles the payment. PaymentDate becomes the calendar date of now,
// whatever it held before; DueDate is not touched.
func (p *Payment) MarkPaid(transactionID, method string, now time.Time) error {
	if p.Status == PaymentPaid || p.Status == PaymentCancelled {
		return transitionError("payment", p.ID, p.Status, "pay")
	}
	if err := firstError(
		required("transactionId", transactionID, 100),
		required("paymentMethod", method, 50),
	); err != nil {
		return err
	}
	p.Status = PaymentPaid
	p.TransactionID = transactionID
	p.PaymentMethod = method
	p.PaymentDate = Day(now)
	return nil
}

// IsOverdue reports whether an unsettled payment is past its due date.
func (p *Payment) IsOverdue(now time.Time) bool {
	if p.Status != PaymentPending && p.Status != PaymentLate {
		return false
	}
	return time.Time(p.DueDate).Before(time.Time(Day(now)))
}
