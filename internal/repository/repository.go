package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

// Repositories bundles one repository per entity over a shared connection.
type Repositories struct {
	Users         *UserRepository
	Apartments    *ApartmentRepository
	Bookings      *BookingRepository
	Complaints    *ComplaintRepository
	Payments      *PaymentRepository
	Announcements *AnnouncementRepository
}

// New builds all repositories. clock defaults to wall time when nil; its
// readings are stored in UTC.
func New(db *gorm.DB, clock func() time.Time) *Repositories {
	if clock == nil {
		clock = time.Now
	}
	now := clock
	clock = func() time.Time { return now().UTC() }
	return &Repositories{
		Users:         &UserRepository{newCrud[model.User](db, clock, "user")},
		Apartments:    &ApartmentRepository{newCrud[model.Apartment](db, clock, "apartment")},
		Bookings:      &BookingRepository{newCrud[model.Booking](db, clock, "booking").guarded(bookingLifecycle)},
		Complaints:    &ComplaintRepository{newCrud[model.Complaint](db, clock, "complaint").guarded(complaintLifecycle)},
		Payments:      &PaymentRepository{newCrud[model.Payment](db, clock, "payment").guarded(paymentLifecycle)},
		Announcements: &AnnouncementRepository{newCrud[model.Announcement](db, clock, "announcement")},
	}
}

// crud implements the operations every entity shares. Validation runs
// before any statement is sent; timestamps are stamped here and nowhere else.
type crud[T any, P interface {
	*T
	model.Entity
}] struct {
	db   *gorm.DB
	now  func() time.Time
	name string
	// guard, when set, vets an Update against the stored row. Fields that
	// only transitions may change are protected this way.
	guard func(stored, next P) error
}

func newCrud[T any, P interface {
	*T
	model.Entity
}](db *gorm.DB, now func() time.Time, name string) crud[T, P] {
	return crud[T, P]{db: db, now: now, name: name}
}

func (r crud[T, P]) guarded(g func(stored, next P) error) crud[T, P] {
	r.guard = g
	return r
}

// Create validates and inserts e, assigning its ID.
func (r crud[T, P]) Create(ctx context.Context, e P) error {
	return r.create(r.db.WithContext(ctx), e)
}

func (r crud[T, P]) create(tx *gorm.DB, e P) error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.OnCreate(r.now())
	if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
		return store.Wrap("create "+r.name, err)
	}
	return nil
}

// Get loads the record with the given id or returns model.ErrNotFound.
func (r crud[T, P]) Get(ctx context.Context, id uint) (P, error) {
	var e T
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, store.Wrap("get "+r.name, err)
	}
	return P(&e), nil
}

// Update validates e and rewrites every column except the creation time.
// Entities with a lifecycle reject updates that touch their status fields
// with model.ErrInvalidTransition; those change through transitions only.
func (r crud[T, P]) Update(ctx context.Context, e P) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if r.guard == nil {
		e.OnUpdate(r.now())
		return r.save(r.db.WithContext(ctx), e)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := r.lock(tx, e.PrimaryKey())
		if err != nil {
			return err
		}
		if err := r.guard(stored, e); err != nil {
			return err
		}
		e.OnUpdate(r.now())
		return r.save(tx, e)
	})
}

// lock loads the row with the given id for update.
func (r crud[T, P]) lock(tx *gorm.DB, id uint) (P, error) {
	if id == 0 {
		return nil, store.Wrap("get "+r.name, gorm.ErrRecordNotFound)
	}
	var e T
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error; err != nil {
		return nil, store.Wrap("get "+r.name, err)
	}
	return P(&e), nil
}

func (r crud[T, P]) save(tx *gorm.DB, e P) error {
	if e.PrimaryKey() == 0 {
		return store.Wrap("update "+r.name, gorm.ErrRecordNotFound)
	}
	res := tx.Model(e).Select("*").Omit("CreatedAt", clause.Associations).Updates(e)
	if res.Error != nil {
		return store.Wrap("update "+r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.Wrap("update "+r.name, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes the record with the given id.
func (r crud[T, P]) Delete(ctx context.Context, id uint) error {
	return r.delete(r.db.WithContext(ctx), id)
}

func (r crud[T, P]) delete(tx *gorm.DB, id uint) error {
	res := tx.Delete(P(new(T)), id)
	if res.Error != nil {
		return store.Wrap("delete "+r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.Wrap("delete "+r.name, gorm.ErrRecordNotFound)
	}
	return nil
}

// List returns every record ordered by id.
func (r crud[T, P]) List(ctx context.Context) ([]T, error) {
	return r.find(ctx, "id", nil)
}

// find runs a filtered read. It never returns a nil slice.
func (r crud[T, P]) find(ctx context.Context, order string, query interface{}, args ...interface{}) ([]T, error) {
	out := make([]T, 0)
	tx := r.db.WithContext(ctx)
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if order != "" {
		tx = tx.Order(order)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, store.Wrap("find "+r.name, err)
	}
	return out, nil
}

// transition loads a record under a row lock, applies change and saves it
// in the same transaction. Nothing is written if change fails.
func (r crud[T, P]) transition(ctx context.Context, id uint, change func(e P, now time.Time) error) (P, error) {
	var out P
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := r.lock(tx, id)
		if err != nil {
			return err
		}
		now := r.now()
		if err := change(p, now); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		p.OnUpdate(now)
		if err := r.save(tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lifecycleChanged(entity string, id uint, field string) error {
	return fmt.Errorf("%w: %s %d: %s changes only through status transitions", model.ErrInvalidTransition, entity, id, field)
}

// sameInstant compares optional timestamps. PostgreSQL keeps microseconds,
// so values a microsecond apart are the same stored instant.
func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Sub(*b).Abs() < time.Microsecond
}
