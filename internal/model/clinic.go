package model

type ClinicStatus string

const (
	ClinicStatusActive   ClinicStatus = "active"
	ClinicStatusInactive ClinicStatus = "inactive"
)

type Clinic struct {
	Base
	Name          string `db:"name" json:"name"`
	Location      string `db:"location" json:"location"`
	ContactNumber string `db:"contact_number" json:"contact_number"`
	Email         string `db:"email" json:"email"`
	Status        string `db:"status" json:"status"`
}

type CreateClinicRequest struct {
	Name          string `json:"name" binding:"required"`
	Location      string `json:"location" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email" binding:"omitempty,email"`
}

type ClinicFilters struct {
	SearchTerm string `form:"search"`
	Status     string `form:"status"`
}
