package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginRequest represents the login request. Login is by username only.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

// CreatePostRequest represents a new feed post.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=3000"`
}

// ConnectRequest asks for a connection with another user.
type ConnectRequest struct {
	ReceiverUsername string `json:"receiverUsername" validate:"required,min=1,max=64"`
}

// UpdateConnectionRequest accepts or declines a pending connection.
type UpdateConnectionRequest struct {
	ConnectionID string `json:"connectionId" validate:"required,uuid"`
	Status       string `json:"status" validate:"required,oneof=ACCEPTED DECLINED"`
}

// SendMessageRequest sends a message, optionally into an existing conversation.
type SendMessageRequest struct {
	RecipientUsername string `json:"recipientUsername" validate:"required,min=1,max=64"`
	Content           string `json:"content" validate:"required,min=1,max=5000"`
	ConversationID    string `json:"conversationId,omitempty" validate:"omitempty,uuid"`
}

// TechRowsRequest replaces the tech skills table of a profile.
type TechRowsRequest struct {
	TechRows []TechRow `json:"techRows" validate:"required"`
}

// OverviewStatsRequest replaces the overview stats of a profile.
type OverviewStatsRequest struct {
	OverviewStats []OverviewStat `json:"overviewStats" validate:"required"`
}

// EducationRequest replaces the education entries of a profile.
type EducationRequest struct {
	Education []EducationEntry `json:"education" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CreatePostRequest using the validator.
func (r *CreatePostRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ConnectRequest using the validator.
func (r *ConnectRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateConnectionRequest using the validator.
func (r *UpdateConnectionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TechRowsRequest using the validator.
func (r *TechRowsRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the OverviewStatsRequest using the validator.
func (r *OverviewStatsRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the EducationRequest using the validator.
func (r *EducationRequest) Validate() error {
	return validate.Struct(r)
}
