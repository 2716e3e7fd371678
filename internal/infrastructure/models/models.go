package models

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&Account{},
		&GenericProfile{},
		&StudentProfile{},
		&TutorProfile{},
		&AdminProfile{},
		&Course{},
		&Enrollment{},
		&TutoringSession{},
		&SessionBooking{},
		&Attendance{},
	}
}
