// Package report serves the stored-procedure backed reports and the two
// procedures that mutate data behind them. Reads are cached by name and
// key; a mutation evicts every cache its write can make stale.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/beesaferoot/ams-store/internal/cache"
	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

// Procedure names.
const (
	ProcOverduePayments     = "GetOverduePayments"
	ProcProcessPayment      = "ProcessPayment"
	ProcAvailableApartments = "GetAvailableApartments"
	ProcAssignResident      = "AssignResidentToApartment"
	ProcPendingComplaints   = "GetPendingComplaints"
	ProcMonthlyRevenue      = "GetMonthlyRevenueReport"
	ProcOccupancyStatistics = "GetOccupancyStatistics"
	ProcDashboardStatistics = "GetDashboardStatistics"
	ProcResidentReport      = "GetResidentReport"
)

// Cache names.
const (
	CacheOverduePayments     = "overduePayments"
	CacheAvailableApartments = "availableApartments"
	CachePendingComplaints   = "pendingComplaints"
	CacheMonthlyRevenue      = "monthlyRevenueReports"
	CacheOccupancy           = "occupancyStatistics"
	CacheDashboard           = "dashboardStatistics"
	CacheResidentReports     = "residentReports"
)

const keyAll = "all"

// Store runs stored procedures.
type Store interface {
	Query(ctx context.Context, name string, args ...store.Arg) ([]store.ResultSet, error)
	Execute(ctx context.Context, name string, args ...store.Arg) error
}

// Dashboard aggregates the statistics shown on the admin dashboard.
type Dashboard struct {
	ApartmentStats store.Row   `json:"apartmentStats"`
	UserStats      store.Row   `json:"userStats"`
	ComplaintStats []store.Row `json:"complaintStats"`
	PaymentStats   store.Row   `json:"paymentStats"`
	BookingStats   []store.Row `json:"bookingStats"`
}

// Resident is the full report on one resident.
type Resident struct {
	ResidentInfo     store.Row   `json:"residentInfo"`
	PaymentHistory   []store.Row `json:"paymentHistory"`
	ComplaintHistory []store.Row `json:"complaintHistory"`
	PaymentStats     store.Row   `json:"paymentStats"`
}

// Service is the reporting façade. Reads hold a shared lock for the whole
// cache-or-load step and mutations an exclusive one around write and
// eviction, so within one process a read never caches data computed before
// a committed write. The lock does not reach other processes sharing a
// Redis cache; there the cache generation advanced by eviction keeps a late
// write from a stale load out of sight.
type Service struct {
	mu    sync.RWMutex
	store Store
	cache cache.Cache
	log   *slog.Logger
}

func New(st Store, c cache.Cache, log *slog.Logger) *Service {
	return &Service{store: st, cache: c, log: log.With("component", "report")}
}

// OverduePayments lists unpaid payments past their due date.
func (s *Service) OverduePayments(ctx context.Context) ([]store.Row, error) {
	s.log.Debug("fetching overdue payments")
	return s.rows(ctx, CacheOverduePayments, keyAll, ProcOverduePayments)
}

// ProcessPayment settles a payment through the store and drops the reports
// that include it.
func (s *Service) ProcessPayment(ctx context.Context, paymentID uint, transactionID, method string) error {
	if err := firstInvalid(
		positive("paymentId", paymentID),
		notBlank("transactionId", transactionID),
		notBlank("paymentMethod", method),
	); err != nil {
		return err
	}
	err := s.mutate(ctx, ProcProcessPayment,
		[]store.Arg{
			store.Named("payment_id", paymentID),
			store.Named("transaction_id", transactionID),
			store.Named("payment_method", method),
		},
		CacheOverduePayments, CacheMonthlyRevenue, CacheDashboard, CacheResidentReports)
	if err != nil {
		return err
	}
	s.log.Info("payment processed", "payment_id", paymentID, "transaction_id", transactionID)
	return nil
}

// AvailableApartments lists available apartments with at least the given
// rooms and rent in [minRent, maxRent].
func (s *Service) AvailableApartments(ctx context.Context, minBedrooms, minBathrooms int, minRent, maxRent float64) ([]store.Row, error) {
	if err := firstInvalid(
		nonNegative("minBedrooms", minBedrooms),
		nonNegative("minBathrooms", minBathrooms),
		rentRange(minRent, maxRent),
	); err != nil {
		return nil, err
	}
	s.log.Debug("fetching available apartments", "min_bedrooms", minBedrooms, "min_bathrooms", minBathrooms,
		"min_rent", minRent, "max_rent", maxRent)
	key := strings.Join([]string{
		strconv.Itoa(minBedrooms),
		strconv.Itoa(minBathrooms),
		strconv.FormatFloat(minRent, 'f', -1, 64),
		strconv.FormatFloat(maxRent, 'f', -1, 64),
	}, "_")
	return s.rows(ctx, CacheAvailableApartments, key, ProcAvailableApartments,
		store.Named("min_bedrooms", minBedrooms),
		store.Named("min_bathrooms", minBathrooms),
		store.Named("min_rent", minRent),
		store.Named("max_rent", maxRent))
}

// AssignResidentToApartment moves a resident into an apartment, marking it
// unavailable.
func (s *Service) AssignResidentToApartment(ctx context.Context, userID, apartmentID uint) error {
	if err := firstInvalid(positive("userId", userID), positive("apartmentId", apartmentID)); err != nil {
		return err
	}
	err := s.mutate(ctx, ProcAssignResident,
		[]store.Arg{store.Named("user_id", userID), store.Named("apartment_id", apartmentID)},
		CacheAvailableApartments, CacheOccupancy, CacheDashboard, CacheResidentReports)
	if err != nil {
		return err
	}
	s.log.Info("resident assigned to apartment", "user_id", userID, "apartment_id", apartmentID)
	return nil
}

// PendingComplaints lists complaints awaiting action.
func (s *Service) PendingComplaints(ctx context.Context) ([]store.Row, error) {
	s.log.Debug("fetching pending complaints")
	return s.rows(ctx, CachePendingComplaints, keyAll, ProcPendingComplaints)
}

// MonthlyRevenueReport summarises payments for one calendar month.
func (s *Service) MonthlyRevenueReport(ctx context.Context, year, month int) ([]store.Row, error) {
	if month < 1 || month > 12 {
		return nil, &model.ValidationError{Field: "month", Message: "must be between 1 and 12"}
	}
	s.log.Debug("generating monthly revenue report", "year", year, "month", month)
	return s.rows(ctx, CacheMonthlyRevenue, fmt.Sprintf("%d_%d", year, month), ProcMonthlyRevenue,
		store.Named("year_param", year), store.Named("month_param", month))
}

// OccupancyStatistics returns the first row of the occupancy report, or an
// empty row when the procedure yields nothing.
func (s *Service) OccupancyStatistics(ctx context.Context) (store.Row, error) {
	s.log.Debug("fetching occupancy statistics")
	return remember(ctx, s, CacheOccupancy, keyAll, func(ctx context.Context) (store.Row, error) {
		sets, err := s.store.Query(ctx, ProcOccupancyStatistics)
		if err != nil {
			return nil, err
		}
		return first(sets, 0), nil
	})
}

// DashboardStatistics gathers the five dashboard sections. Missing result
// sets leave their section empty.
func (s *Service) DashboardStatistics(ctx context.Context) (Dashboard, error) {
	s.log.Debug("fetching dashboard statistics")
	return remember(ctx, s, CacheDashboard, keyAll, func(ctx context.Context) (Dashboard, error) {
		sets, err := s.store.Query(ctx, ProcDashboardStatistics)
		if err != nil {
			return Dashboard{}, err
		}
		return Dashboard{
			ApartmentStats: first(sets, 0),
			UserStats:      first(sets, 1),
			ComplaintStats: all(sets, 2),
			PaymentStats:   first(sets, 3),
			BookingStats:   all(sets, 4),
		}, nil
	})
}

// ResidentReport gathers one resident's details and history.
func (s *Service) ResidentReport(ctx context.Context, residentID uint) (Resident, error) {
	if err := positive("residentId", residentID); err != nil {
		return Resident{}, err
	}
	s.log.Debug("generating resident report", "resident_id", residentID)
	key := strconv.FormatUint(uint64(residentID), 10)
	return remember(ctx, s, CacheResidentReports, key, func(ctx context.Context) (Resident, error) {
		sets, err := s.store.Query(ctx, ProcResidentReport, store.Named("resident_id", residentID))
		if err != nil {
			return Resident{}, err
		}
		return Resident{
			ResidentInfo:     first(sets, 0),
			PaymentHistory:   all(sets, 1),
			ComplaintHistory: all(sets, 2),
			PaymentStats:     first(sets, 3),
		}, nil
	})
}

func (s *Service) rows(ctx context.Context, name, key, proc string, args ...store.Arg) ([]store.Row, error) {
	return remember(ctx, s, name, key, func(ctx context.Context) ([]store.Row, error) {
		sets, err := s.store.Query(ctx, proc, args...)
		if err != nil {
			return nil, err
		}
		return all(sets, 0), nil
	})
}

func remember[T any](ctx context.Context, s *Service, name, key string, load func(context.Context) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cache.Remember(ctx, s.cache, name, key, load)
}

// mutate runs a procedure and, once it has committed, evicts the named
// caches. A failed procedure evicts nothing.
func (s *Service) mutate(ctx context.Context, proc string, args []store.Arg, evict ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Execute(ctx, proc, args...); err != nil {
		return err
	}
	if err := cache.EvictAll(ctx, s.cache, evict...); err != nil {
		s.log.Error("cache eviction failed", "procedure", proc, "error", err)
		return err
	}
	return nil
}

// first returns the first row of result set i, or an empty row.
func first(sets []store.ResultSet, i int) store.Row {
	if i < len(sets) && len(sets[i]) > 0 {
		return sets[i][0]
	}
	return store.Row{}
}

// all returns result set i, or no rows.
func all(sets []store.ResultSet, i int) []store.Row {
	if i < len(sets) && sets[i] != nil {
		return sets[i]
	}
	return []store.Row{}
}
