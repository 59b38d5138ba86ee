package domain

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview backs the administrator dashboard.
type Overview struct {
	TotalQueries             int          `json:"total_queries"`
	EmergencyQueries         int          `json:"emergency_queries"`
	PendingQueries           int          `json:"pending_queries"`
	TotalAppointments        int          `json:"total_appointments"`
	AppointmentsToday        int          `json:"appointments_today"`
	DoctorsOnDuty            []Doctor     `json:"doctors_on_duty"`
	CategoryDistribution     []NamedCount `json:"category_distribution"`
	AppointmentsByDepartment []NamedCount `json:"appointments_by_department"`
	AppointmentsTrend        []DateCount  `json:"appointments_trend"`
}
