package model

// All returns a pointer to every persisted model, parents before children.
func All() []interface{} {
	return []interface{}{
		&Apartment{},
		&User{},
		&Booking{},
		&Complaint{},
		&Payment{},
		&Announcement{},
	}
}
