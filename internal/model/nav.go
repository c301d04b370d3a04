package model

import "time"

// NavRecord is one point in a fund's NAV history, unique per
// (FundID, NavDate). The record with the maximum NavDate defines the
// fund's current NAV.
type NavRecord struct {
	ID              string    `json:"id"`
	FundID          string    `json:"fundId"`
	NavDate         time.Time `json:"navDate"`
	Nav             float64   `json:"nav"`
	NavAccumulated  float64   `json:"navAccumulated"`
	DailyReturnRate float64   `json:"dailyReturnRate"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}
