package migration

// Reports are plpgsql functions returning one named refcursor per result
// set. Parameters are referenced through the routine name wherever a column
// of the same name is in scope.
var procedures = []string{
	`CREATE OR REPLACE FUNCTION GetOverduePayments() RETURNS SETOF refcursor AS $$
DECLARE
	overdue refcursor := 'overdue_payments';
BEGIN
	OPEN overdue FOR
		SELECT p.id, p.type, p.amount, p.description, p.due_date, p.status,
		       p.resident_id, u.first_name, u.last_name, u.email,
		       p.apartment_id, a.name AS apartment_name, a.unit_number,
		       CURRENT_DATE - p.due_date AS days_overdue
		FROM payments p
		JOIN users u ON p.resident_id = u.id
		JOIN apartments a ON p.apartment_id = a.id
		WHERE p.status IN ('PENDING', 'LATE') AND p.due_date < CURRENT_DATE
		ORDER BY p.due_date, p.id;
	RETURN NEXT overdue;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE PROCEDURE ProcessPayment(payment_id bigint, transaction_id varchar, payment_method varchar) AS $$
DECLARE
	current_status varchar;
BEGIN
	SELECT p.status INTO current_status FROM payments p WHERE p.id = ProcessPayment.payment_id FOR UPDATE;
	IF NOT FOUND THEN
		RAISE EXCEPTION 'payment % not found', ProcessPayment.payment_id;
	END IF;
	IF current_status IN ('PAID', 'CANCELLED') THEN
		RAISE EXCEPTION 'payment % is already %', ProcessPayment.payment_id, current_status;
	END IF;
	UPDATE payments
	SET status = 'PAID',
	    transaction_id = ProcessPayment.transaction_id,
	    payment_method = ProcessPayment.payment_method,
	    payment_date = CURRENT_DATE,
	    updated_at = now()
	WHERE id = ProcessPayment.payment_id;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION GetAvailableApartments(min_bedrooms bigint, min_bathrooms bigint, min_rent double precision, max_rent double precision) RETURNS SETOF refcursor AS $$
DECLARE
	available refcursor := 'available_apartments';
BEGIN
	OPEN available FOR
		SELECT a.*
		FROM apartments a
		WHERE a.is_available
		  AND a.bedrooms >= GetAvailableApartments.min_bedrooms
		  AND a.bathrooms >= GetAvailableApartments.min_bathrooms
		  AND a.rent BETWEEN GetAvailableApartments.min_rent AND GetAvailableApartments.max_rent
		ORDER BY a.rent, a.id;
	RETURN NEXT available;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE PROCEDURE AssignResidentToApartment(user_id bigint, apartment_id bigint) AS $$
BEGIN
	PERFORM 1 FROM users u WHERE u.id = AssignResidentToApartment.user_id FOR UPDATE;
	IF NOT FOUND THEN
		RAISE EXCEPTION 'user % not found', AssignResidentToApartment.user_id;
	END IF;
	PERFORM 1 FROM apartments a WHERE a.id = AssignResidentToApartment.apartment_id FOR UPDATE;
	IF NOT FOUND THEN
		RAISE EXCEPTION 'apartment % not found', AssignResidentToApartment.apartment_id;
	END IF;
	UPDATE users
	SET apartment_id = AssignResidentToApartment.apartment_id,
	    role = 'RESIDENT',
	    updated_at = now()
	WHERE id = AssignResidentToApartment.user_id;
	UPDATE apartments
	SET is_available = false,
	    updated_at = now()
	WHERE id = AssignResidentToApartment.apartment_id;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION GetPendingComplaints() RETURNS SETOF refcursor AS $$
DECLARE
	pending refcursor := 'pending_complaints';
BEGIN
	OPEN pending FOR
		SELECT c.id, c.title, c.description, c.category, c.priority, c.status, c.created_at,
		       c.resident_id, u.first_name, u.last_name,
		       c.apartment_id, a.name AS apartment_name, a.unit_number
		FROM complaints c
		JOIN users u ON c.resident_id = u.id
		JOIN apartments a ON c.apartment_id = a.id
		WHERE c.status = 'PENDING'
		ORDER BY CASE c.priority
		             WHEN 'CRITICAL' THEN 0
		             WHEN 'HIGH' THEN 1
		             WHEN 'MEDIUM' THEN 2
		             ELSE 3
		         END,
		         c.created_at;
	RETURN NEXT pending;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION GetMonthlyRevenueReport(year_param bigint, month_param bigint) RETURNS SETOF refcursor AS $$
DECLARE
	revenue refcursor := 'monthly_revenue';
BEGIN
	OPEN revenue FOR
		SELECT p.type,
		       COUNT(*) AS payment_count,
		       SUM(p.amount) AS total_amount,
		       AVG(p.amount) AS average_amount
		FROM payments p
		WHERE p.status = 'PAID'
		  AND EXTRACT(YEAR FROM p.payment_date) = year_param
		  AND EXTRACT(MONTH FROM p.payment_date) = month_param
		GROUP BY p.type
		ORDER BY p.type;
	RETURN NEXT revenue;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION GetOccupancyStatistics() RETURNS SETOF refcursor AS $$
DECLARE
	occupancy refcursor := 'occupancy_statistics';
BEGIN
	OPEN occupancy FOR
		SELECT COUNT(*) AS total_apartments,
		       COUNT(*) FILTER (WHERE NOT a.is_available) AS occupied_apartments,
		       COUNT(*) FILTER (WHERE a.is_available) AS available_apartments,
		       ROUND(100.0 * COUNT(*) FILTER (WHERE NOT a.is_available) / NULLIF(COUNT(*), 0), 2) AS occupancy_rate,
		       (SELECT COUNT(*) FROM users u WHERE u.role = 'RESIDENT' AND u.apartment_id IS NOT NULL) AS total_residents
		FROM apartments a;
	RETURN NEXT occupancy;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION GetDashboardStatistics() RETURNS SETOF refcursor AS $$
DECLARE
	apartment_stats refcursor := 'apartment_stats';
	user_stats refcursor := 'user_stats';
	complaint_stats refcursor := 'complaint_stats';
	payment_stats refcursor := 'payment_stats';
	booking_stats refcursor := 'booking_stats';
BEGIN
	OPEN apartment_stats FOR
		SELECT COUNT(*) AS total_apartments,
		       COUNT(*) FILTER (WHERE a.is_available) AS available_apartments,
		       COUNT(*) FILTER (WHERE NOT a.is_available) AS occupied_apartments,
		       COALESCE(AVG(a.rent), 0) AS average_rent
		FROM apartments a;
	RETURN NEXT apartment_stats;

	OPEN user_stats FOR
		SELECT COUNT(*) AS total_users,
		       COUNT(*) FILTER (WHERE u.role = 'ADMIN') AS admins,
		       COUNT(*) FILTER (WHERE u.role = 'RESIDENT') AS residents,
		       COUNT(*) FILTER (WHERE u.role = 'VISITOR') AS visitors,
		       COUNT(*) FILTER (WHERE u.active) AS active_users
		FROM users u;
	RETURN NEXT user_stats;

	OPEN complaint_stats FOR
		SELECT c.status, COUNT(*) AS count
		FROM complaints c
		GROUP BY c.status
		ORDER BY c.status;
	RETURN NEXT complaint_stats;

	OPEN payment_stats FOR
		SELECT COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'PAID'), 0) AS total_collected,
		       COALESCE(SUM(p.amount) FILTER (WHERE p.status IN ('PENDING', 'LATE')), 0) AS total_outstanding,
		       COUNT(*) FILTER (WHERE p.status IN ('PENDING', 'LATE') AND p.due_date < CURRENT_DATE) AS overdue_count,
		       COALESCE(SUM(p.amount) FILTER (WHERE p.status IN ('PENDING', 'LATE') AND p.due_date < CURRENT_DATE), 0) AS overdue_amount
		FROM payments p;
	RETURN NEXT payment_stats;

	OPEN booking_stats FOR
		SELECT b.status, COUNT(*) AS count
		FROM bookings b
		GROUP BY b.status
		ORDER BY b.status;
	RETURN NEXT booking_stats;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION GetResidentReport(resident_id bigint) RETURNS SETOF refcursor AS $$
DECLARE
	resident_info refcursor := 'resident_info';
	payment_history refcursor := 'payment_history';
	complaint_history refcursor := 'complaint_history';
	payment_stats refcursor := 'resident_payment_stats';
BEGIN
	OPEN resident_info FOR
		SELECT u.id, u.first_name, u.last_name, u.email, u.phone, u.role, u.active,
		       u.apartment_id, a.name AS apartment_name, a.unit_number, a.floor_number, a.rent
		FROM users u
		LEFT JOIN apartments a ON u.apartment_id = a.id
		WHERE u.id = GetResidentReport.resident_id;
	RETURN NEXT resident_info;

	OPEN payment_history FOR
		SELECT p.id, p.type, p.amount, p.description, p.payment_date, p.due_date, p.status,
		       p.transaction_id, p.payment_method, p.apartment_id
		FROM payments p
		WHERE p.resident_id = GetResidentReport.resident_id
		ORDER BY p.due_date DESC, p.id DESC;
	RETURN NEXT payment_history;

	OPEN complaint_history FOR
		SELECT c.id, c.title, c.category, c.priority, c.status, c.created_at, c.resolved_at, c.resolution
		FROM complaints c
		WHERE c.resident_id = GetResidentReport.resident_id
		ORDER BY c.created_at DESC, c.id DESC;
	RETURN NEXT complaint_history;

	OPEN payment_stats FOR
		SELECT COUNT(*) AS payment_count,
		       COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'PAID'), 0) AS total_paid,
		       COALESCE(SUM(p.amount) FILTER (WHERE p.status IN ('PENDING', 'LATE')), 0) AS total_pending,
		       COUNT(*) FILTER (WHERE p.status IN ('PENDING', 'LATE') AND p.due_date < CURRENT_DATE) AS overdue_count
		FROM payments p
		WHERE p.resident_id = GetResidentReport.resident_id;
	RETURN NEXT payment_stats;
END;
$$ LANGUAGE plpgsql`,
}

var dropProcedures = []string{
	"DROP FUNCTION IF EXISTS GetResidentReport(bigint)",
	"DROP FUNCTION IF EXISTS GetDashboardStatistics()",
	"DROP FUNCTION IF EXISTS GetOccupancyStatistics()",
	"DROP FUNCTION IF EXISTS GetMonthlyRevenueReport(bigint, bigint)",
	"DROP FUNCTION IF EXISTS GetPendingComplaints()",
	"DROP PROCEDURE IF EXISTS AssignResidentToApartment(bigint, bigint)",
	"DROP FUNCTION IF EXISTS GetAvailableApartments(bigint, bigint, double precision, double precision)",
	"DROP PROCEDURE IF EXISTS ProcessPayment(bigint, varchar, varchar)",
	"DROP FUNCTION IF EXISTS GetOverduePayments()",
}
