package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/beesaferoot/ams-store/model"
)

// PaymentRepository persists payments.
type PaymentRepository struct {
	crud[model.Payment, *model.Payment]
}

// MarkPaid settles a payment and sets its payment date to today.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id uint, transactionID, method string) (*model.Payment, error) {
	return r.transition(ctx, id, func(p *model.Payment, now time.Time) error {
		return p.MarkPaid(transactionID, method, now)
	})
}

func (r *PaymentRepository) FindByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	return r.find(ctx, "", "status = ?", status)
}

func (r *PaymentRepository) FindByType(ctx context.Context, typ model.PaymentType) ([]model.Payment, error) {
	return r.find(ctx, "", "type = ?", typ)
}

func (r *PaymentRepository) FindByResident(ctx context.Context, residentID uint) ([]model.Payment, error) {
	return r.find(ctx, "", "resident_id = ?", residentID)
}

func (r *PaymentRepository) FindByApartment(ctx context.Context, apartmentID uint) ([]model.Payment, error) {
	return r.find(ctx, "", "apartment_id = ?", apartmentID)
}

// FindDueBefore matches due dates strictly before date.
func (r *PaymentRepository) FindDueBefore(ctx context.Context, date datatypes.Date) ([]model.Payment, error) {
	return r.find(ctx, "", "due_date < ?", date)
}

func (r *PaymentRepository) FindDueBeforeWithStatus(ctx context.Context, date datatypes.Date, status model.PaymentStatus) ([]model.Payment, error) {
	return r.find(ctx, "", "due_date < ? AND status = ?", date, status)
}

func (r *PaymentRepository) FindByStatusAndResident(ctx context.Context, status model.PaymentStatus, residentID uint) ([]model.Payment, error) {
	return r.find(ctx, "", "status = ? AND resident_id = ?", status, residentID)
}

// FindPaidBetween matches payment dates in [start, end].
func (r *PaymentRepository) FindPaidBetween(ctx context.Context, start, end datatypes.Date) ([]model.Payment, error) {
	return r.find(ctx, "", "payment_date BETWEEN ? AND ?", start, end)
}

// paymentLifecycle leaves settlement to MarkPaid. An unsettled payment may
// still move between PENDING and LATE through Update.
func paymentLifecycle(stored, next *model.Payment) error {
	switch {
	case stored.Status != next.Status && !(unsettled(stored.Status) && unsettled(next.Status)):
		return lifecycleChanged("payment", stored.ID, "status")
	case !sameDay(stored.PaymentDate, next.PaymentDate):
		return lifecycleChanged("payment", stored.ID, "paymentDate")
	case stored.TransactionID != next.TransactionID:
		return lifecycleChanged("payment", stored.ID, "transactionId")
	case stored.PaymentMethod != next.PaymentMethod:
		return lifecycleChanged("payment", stored.ID, "paymentMethod")
	}
	return nil
}

func unsettled(s model.PaymentStatus) bool {
	return s == model.PaymentPending || s == model.PaymentLate
}

func sameDay(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	return ay == by && am == bm && ad == bd
}
