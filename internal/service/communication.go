package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// CommunicationServiceOptions groups dependencies for CommunicationService.
type CommunicationServiceOptions struct {
	Client ports.JSONDoer // Required: authenticated transport
}

// CommunicationService covers chat and video-call token issuance. The media
// transport itself is the third-party SDK's business; this client only
// obtains tokens, channels and message history.
type CommunicationService struct {
	client ports.JSONDoer
}

// NewCommunicationService constructs a new CommunicationService.
func NewCommunicationService(opts CommunicationServiceOptions) *CommunicationService {
	if opts.Client == nil {
		panic("service: CommunicationServiceOptions.Client is required")
	}
	return &CommunicationService{client: opts.Client}
}

// RTMToken issues a real-time messaging token for the current user.
func (s *CommunicationService) RTMToken(ctx context.Context) (model.RTMToken, error) {
	var out model.RTMToken
	err := s.client.GetJSON(ctx, "/communication/get_rtm_token/", &out)
	return out, err
}

// ChatPartners lists the users the current user may message.
func (s *CommunicationService) ChatPartners(ctx context.Context) ([]model.ChatPartner, error) {
	var out []model.ChatPartner
	if err := s.client.GetJSON(ctx, "/communication/get_chat_partners/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChatChannel resolves the channel name shared with a partner.
func (s *CommunicationService) ChatChannel(ctx context.Context, partnerID int64) (string, error) {
	q := url.Values{}
	q.Set("partner_id", strconv.FormatInt(partnerID, 10))

	var out struct {
		Channel string `json:"channel"`
	}
	if err := s.client.GetJSON(ctx, "/communication/get_chat_channel/?"+q.Encode(), &out); err != nil {
		return "", err
	}
	return out.Channel, nil
}

// Messages returns the message history of a channel.
func (s *CommunicationService) Messages(ctx context.Context, channel string) ([]model.ChatMessage, error) {
	q := url.Values{}
	q.Set("channel", channel)

	var out []model.ChatMessage
	if err := s.client.GetJSON(ctx, "/communication/get_messages/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message to a channel.
func (s *CommunicationService) SendMessage(ctx context.Context, channel, text string) (model.ChatMessage, error) {
	body := struct {
		Channel string `json:"channel"`
		Text    string `json:"text"`
	}{Channel: channel, Text: text}

	var out model.ChatMessage
	err := s.client.PostJSON(ctx, "/communication/send_message/", body, &out)
	return out, err
}

// StartVideoCall starts a call with a partner and returns the join token.
func (s *CommunicationService) StartVideoCall(ctx context.Context, partnerID int64) (model.VideoCall, error) {
	body := struct {
		PartnerID int64 `json:"partner_id"`
	}{PartnerID: partnerID}

	var out model.VideoCall
	err := s.client.PostJSON(ctx, "/communication/start_video_call/", body, &out)
	return out, err
}
