package queue

import (
	"reflect"
	"testing"
)

func TestEncodeJobStampsVersion(t *testing.T) {
	job := DeliveryJob{
		DocumentID:   "doc-123",
		UserID:       "user-456",
		PhoneNumber:  "+263771234567",
		TemplateName: "Modern Professional",
		FileName:     "CV_Jane_Doe_20260130_220000.pdf",
		EnqueuedAt:   "2026-01-30T22:00:00Z",
	}

	payload, err := EncodeJob(job)
	if err != nil {
		t.Fatalf("encode job: %v", err)
	}

	got, err := DecodeJob(payload)
	if err != nil {
		t.Fatalf("decode job: %v", err)
	}

	job.Version = CurrentVersion
	if !reflect.DeepEqual(got, job) {
		t.Fatalf("decoded mismatch: got %+v want %+v", got, job)
	}
}

func TestDecodeJobRejectsGarbage(t *testing.T) {
	if _, err := DecodeJob([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDeliveryJobValidate(t *testing.T) {
	tests := []struct {
		name    string
		job     DeliveryJob
		wantErr bool
	}{
		{name: "complete", job: DeliveryJob{DocumentID: "d", PhoneNumber: "+1"}},
		{name: "no document", job: DeliveryJob{PhoneNumber: "+1"}, wantErr: true},
		{name: "no phone", job: DeliveryJob{DocumentID: "d", PhoneNumber: "  "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
