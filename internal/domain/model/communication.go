package model

import "time"

// RTMToken grants access to the real-time messaging service for one user.
type RTMToken struct {
	Token   string `json:"token"`
	UserID  string `json:"uid"`
	Channel string `json:"channel,omitempty"`
}

// ChatPartner is a user the current user may message.
type ChatPartner struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"profile_photo_url,omitempty"`
}

// ChatMessage is one message in a channel.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Channel   string    `json:"channel"`
	SenderID  int64     `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// VideoCall is a started call the counterpart is invited to join.
type VideoCall struct {
	Channel string `json:"channel"`
	Token   string `json:"token"`
}
