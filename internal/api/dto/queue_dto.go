package dto

import "github.com/spec-kit/deal-service/internal/queue"

// QueueResponse is the ranked worklist plus its aggregate counts.
type QueueResponse struct {
	Items       []queue.Item `json:"items"`
	UrgentCount int          `json:"urgent_count"`
	TotalCount  int          `json:"total_count"`
}
