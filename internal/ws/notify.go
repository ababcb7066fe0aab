package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type AssessmentGradedEvent struct {
	Type        string  `json:"type"`
	CandidateID string  `json:"candidate_id"`
	Status      string  `json:"status"`
	VSPS        float64 `json:"vsps"`
	Timestamp   string  `json:"timestamp"`
}

type ListingsUpdatedEvent struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifyAssessmentGraded(candidateID uuid.UUID, status string, vsps float64) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := AssessmentGradedEvent{
		Type:        "assessment_graded",
		CandidateID: candidateID.String(),
		Status:      status,
		VSPS:        vsps,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}

func NotifyListingsUpdated(source string, count int) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := ListingsUpdatedEvent{
		Type:      "listings_updated",
		Source:    source,
		Count:     count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
