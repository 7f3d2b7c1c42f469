package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeStatus values as stored on employee rows.
const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)

// Employee is a staff record scoped to a company.
type Employee struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	UserID       *uuid.UUID `json:"user_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	Position     *string    `json:"position"`
	EmployeeCode *string    `json:"employee_code"`
	JoiningDate  *string    `json:"joining_date"`
	Status       *string    `json:"status"`
	AvatarURL    *string    `json:"avatar_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AttendanceStatus enumerates attendance row states.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceWFH     AttendanceStatus = "wfh"
	AttendanceOnDuty  AttendanceStatus = "on_duty"
)

// Known returns true if the status is part of the fixed enumeration.
func (s AttendanceStatus) Known() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate,
		AttendanceHalfDay, AttendanceWFH, AttendanceOnDuty:
		return true
	}
	return false
}

// Attendance is one employee-day attendance record.
// Date is a calendar date in YYYY-MM-DD form.
type Attendance struct {
	ID         uuid.UUID        `json:"id"`
	CompanyID  uuid.UUID        `json:"company_id"`
	EmployeeID uuid.UUID        `json:"employee_id"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
	CheckIn    *string          `json:"check_in"`
	CheckOut   *string          `json:"check_out"`
	Notes      *string          `json:"notes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// LeaveStatus enumerates leave request states.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is an employee leave application.
// StartDate and EndDate are calendar dates in YYYY-MM-DD form.
type LeaveRequest struct {
	ID              uuid.UUID   `json:"id"`
	CompanyID       uuid.UUID   `json:"company_id"`
	EmployeeID      uuid.UUID   `json:"employee_id"`
	LeaveType       string      `json:"leave_type"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	Reason          *string     `json:"reason"`
	Status          LeaveStatus `json:"status"`
	ApprovedBy      *uuid.UUID  `json:"approved_by"`
	ApprovedAt      *time.Time  `json:"approved_at"`
	RejectionReason *string     `json:"rejection_reason"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
