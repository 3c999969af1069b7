package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Topic *string `json:"topic" validate:"required"`
	Mode  string  `json:"mode,omitempty" validate:"omitempty,oneof=short long"`
}

func TestValidateStruct(t *testing.T) {
	empty := ""
	topic := "inflation"

	tests := []struct {
		name    string
		req     sampleRequest
		wantErr string
	}{
		{name: "valid", req: sampleRequest{Topic: &topic}},
		{name: "empty string is present", req: sampleRequest{Topic: &empty}},
		{name: "missing topic", req: sampleRequest{}, wantErr: "topic is required"},
		{name: "bad mode", req: sampleRequest{Topic: &topic, Mode: "huge"}, wantErr: "mode must be one of: short long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
