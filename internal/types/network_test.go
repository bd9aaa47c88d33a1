package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Username: "emmachen"}).Validate())
	assert.Error(t, (&LoginRequest{}).Validate())
}

func TestUpdateConnectionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateConnectionRequest
		wantErr bool
	}{
		{"accept", UpdateConnectionRequest{ConnectionID: "6f1c1d7e-8a8e-4c1b-9d53-0c2b1f3e4a5b", Status: "ACCEPTED"}, false},
		{"decline", UpdateConnectionRequest{ConnectionID: "6f1c1d7e-8a8e-4c1b-9d53-0c2b1f3e4a5b", Status: "DECLINED"}, false},
		{"pending is not a target state", UpdateConnectionRequest{ConnectionID: "6f1c1d7e-8a8e-4c1b-9d53-0c2b1f3e4a5b", Status: "PENDING"}, true},
		{"bad id", UpdateConnectionRequest{ConnectionID: "42", Status: "ACCEPTED"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSendMessageRequest_Validate(t *testing.T) {
	assert.NoError(t, (&SendMessageRequest{RecipientUsername: "emmachen", Content: "hi"}).Validate())
	assert.Error(t, (&SendMessageRequest{RecipientUsername: "emmachen"}).Validate())
	assert.Error(t, (&SendMessageRequest{RecipientUsername: "emmachen", Content: "hi", ConversationID: "nope"}).Validate())
}

func TestTechRowsRequest_Validate(t *testing.T) {
	assert.Error(t, (&TechRowsRequest{}).Validate())
	assert.NoError(t, (&TechRowsRequest{TechRows: []TechRow{}}).Validate())
}
