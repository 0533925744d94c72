package domain

// SLAPolicy defines response and resolution targets for one priority level.
// Policies are configuration: the engine only ever reads them.
type SLAPolicy struct {
	ID                  int64
	Priority            TicketPriority
	ResponseTimeHours   int
	ResolutionTimeHours int
	Description         *string
}
