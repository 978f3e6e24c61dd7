package domain

import "time"

type Airport struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Flight struct {
	ID            int64     `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	Datetime      time.Time `json:"datetime"`
	FromAirportID int64     `json:"from_airport_id"`
	ToAirportID   int64     `json:"to_airport_id"`
	Price         int64     `json:"price"`
}
