package entity

// Report is everything a rendered session report shows.
type Report struct {
	Session      Session
	Distribution Distribution
	Records      []Record
}
