package dto

import "time"

// PostWeekRequest posts one staff member's week to the remote payroll system
type PostWeekRequest struct {
	StaffID       string    `json:"staff_id" binding:"required,uuid"`
	StaffRemoteID string    `json:"staff_remote_id" binding:"required"`
	WeekEnding    time.Time `json:"week_ending" binding:"required"`
}
