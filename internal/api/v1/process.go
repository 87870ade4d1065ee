package v1

// MsgQueueEmpty is reported by the process endpoint when nothing was claimed.
const MsgQueueEmpty = "No events in queue"

// ProcessResponse is the body returned by the process endpoint.
// AggregatedDays is absent when the queue was empty; Message is set only then.
type ProcessResponse struct {
	Success        bool   `json:"success"`
	Processed      int    `json:"processed"`
	AggregatedDays *int   `json:"aggregated_days,omitempty"`
	Message        string `json:"message,omitempty"`
}
