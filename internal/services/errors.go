package services

// Service errors
var (
	ErrRaffleNotFound   = &ServiceError{Message: "raffle not found"}
	ErrEmptyRoster      = &ServiceError{Message: "raffle has no participants"}
	ErrDrawNotAllowed   = &ServiceError{Message: "a draw can only start from the ready state of a draft raffle"}
	ErrResetNotAllowed  = &ServiceError{Message: "results are committed - reset the raffle to draw again"}
	ErrNoActiveSession  = &ServiceError{Message: "no live session is open"}
	ErrNoOpenRaffle     = &ServiceError{Message: "no raffle is open in the editor"}
	ErrRaffleLocked     = &ServiceError{Message: "configuration is locked while results are committed"}
	ErrInvalidRosterURL = &ServiceError{Message: "roster URL must be http or https"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
