package common

import (
	"github.com/google/uuid"
)

// NewNotificationID generates a unique notification ID with the "ntf_" prefix
// Format: ntf_<uuid>
func NewNotificationID() string {
	return "ntf_" + uuid.New().String()
}
