package queue

import (
	"encoding/json"
	"errors"
	"strings"
)

// CurrentVersion is the delivery job schema version written by this build.
const CurrentVersion = 1

// DeliveryJob asks the worker to send a generated document back to its owner.
type DeliveryJob struct {
	DocumentID   string `json:"documentId"`
	UserID       string `json:"userId"`
	PhoneNumber  string `json:"phoneNumber"`
	TemplateName string `json:"templateName"`
	FileName     string `json:"fileName"`
	EnqueuedAt   string `json:"enqueuedAt"`
	Version      int    `json:"version"`
}

// Validate reports the first missing field a worker cannot do without.
func (j DeliveryJob) Validate() error {
	switch {
	case strings.TrimSpace(j.DocumentID) == "":
		return errors.New("missing document id")
	case strings.TrimSpace(j.PhoneNumber) == "":
		return errors.New("missing phone number")
	}
	return nil
}

// EncodeJob returns the JSON representation of a job.
func EncodeJob(job DeliveryJob) ([]byte, error) {
	if job.Version == 0 {
		job.Version = CurrentVersion
	}
	return json.Marshal(job)
}

// DecodeJob parses a JSON payload into a DeliveryJob.
func DecodeJob(payload []byte) (DeliveryJob, error) {
	var job DeliveryJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return DeliveryJob{}, err
	}
	return job, nil
}
