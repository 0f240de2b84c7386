package dto

// Error represents a standard error response
type Error struct {
	Error string `json:"error" example:"error message"`
}

// DenyResponse is written by the tenant guard when a request is rejected.
// Limit fields are present only for LIMIT_EXCEEDED and RATE_LIMIT.
type DenyResponse struct {
	Code    string `json:"code" example:"LIMIT_EXCEEDED"`
	Message string `json:"message" example:"Daily email limit reached (110% of 100)"`
	*DenyLimit
}

type DenyLimit struct {
	Key   string  `json:"key" example:"emailsPerDay"`
	Used  int64   `json:"used" example:"110"`
	Max   float64 `json:"max" example:"100"`
	Pct   int64   `json:"pct" example:"110"`
	Grace int     `json:"grace" example:"10"`
}
