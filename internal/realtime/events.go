package realtime

type SSEEvent string

const (
	SSEEventRSVPSubmitted    SSEEvent = "RSVPSubmitted"
	SSEEventHouseholdChanged SSEEvent = "HouseholdChanged"
	SSEEventWebsiteUpdated   SSEEvent = "WebsiteUpdated"
	SSEEventMemberRemoved    SSEEvent = "MemberRemoved"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
	// RevokeUserID drops that user's subscriptions to Channel once the message is delivered.
	RevokeUserID string `json:"revoke_user_id,omitempty"`
}
