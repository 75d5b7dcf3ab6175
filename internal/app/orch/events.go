package orch

import "encoding/json"

// Outbound wire events. Every server-to-client message is a JSON object
// whose "type" field names the event.
const (
	evRoomCreated             = "room_created"
	evJoinedSuccess           = "joined_success"
	evErrorMsg                = "error_msg"
	evRoomDestroyed           = "room_destroyed"
	evUserJoined              = "user_joined"
	evUserLeft                = "user_left"
	evUpdateUserCount         = "update_user_count"
	evChannelBusy             = "channel_busy"
	evChannelFree             = "channel_free"
	evPlayAudio               = "play_audio"
	evUpdateVideoFrame        = "update_video_frame"
	evUserJoinedSignal        = "user_joined_signal"
	evReceivingReturnedSignal = "receiving_returned_signal"
)

// Error codes carried by error_msg. Failures are always scoped to the
// requesting session, never broadcast.
const (
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeUnavailable  = "unavailable"
	CodeTooLarge     = "payload_too_large"
)

type roomCreatedEvent struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	HostSecret string `json:"hostSecret"`
}

type joinedSuccessEvent struct {
	Type       string      `json:"type"`
	RoomID     string      `json:"roomId"`
	IsHost     bool        `json:"isHost"`
	AllUsers   []string    `json:"allUsers"`
	ICEServers interface{} `json:"iceServers,omitempty"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type typeOnlyEvent struct {
	Type string `json:"type"`
}

type userEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type userCountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type channelBusyEvent struct {
	Type   string `json:"type"`
	Holder string `json:"holder"`
}

type mediaEvent struct {
	Type   string          `json:"type"`
	UserID string          `json:"userId"`
	Data   json.RawMessage `json:"data,omitempty"`
	Frame  json.RawMessage `json:"frame,omitempty"`
}

type signalEvent struct {
	Type     string          `json:"type"`
	Signal   json.RawMessage `json:"signal"`
	CallerID string          `json:"callerID,omitempty"`
	ID       string          `json:"id,omitempty"`
}
