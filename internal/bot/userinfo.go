package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UserInfoProvider resolves usernames and avatar URLs through the bot API
// for explorer responses. Implements service.UserInfoProvider.
type UserInfoProvider struct {
	api *tgbotapi.BotAPI
}

func NewUserInfoProvider(api *tgbotapi.BotAPI) *UserInfoProvider {
	return &UserInfoProvider{api: api}
}

func (p *UserInfoProvider) UserInfo(ctx context.Context, userID int64) (string, string, error) {
	chat, err := p.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: userID},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get chat: %w", err)
	}

	avatarURL, err := p.avatarURL(userID)
	if err != nil {
		// The avatar is decoration; a username alone is a useful answer.
		avatarURL = ""
	}
	return chat.UserName, avatarURL, nil
}

func (p *UserInfoProvider) avatarURL(userID int64) (string, error) {
	photos, err := p.api.GetUserProfilePhotos(tgbotapi.UserProfilePhotosConfig{
		UserID: userID,
		Limit:  1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get user photos: %w", err)
	}
	if len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", fmt.Errorf("no photo found")
	}

	file, err := p.api.GetFile(tgbotapi.FileConfig{
		FileID: photos.Photos[0][0].FileID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get file: %w", err)
	}
	return file.Link(p.api.Token), nil
}

// MembershipChecker answers channel membership questions through the live
// bot API. Implements service.MembershipChecker.
type MembershipChecker struct {
	api     *tgbotapi.BotAPI
	channel string
}

func NewMembershipChecker(api *tgbotapi.BotAPI, channel string) *MembershipChecker {
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	return &MembershipChecker{api: api, channel: channel}
}

func (m *MembershipChecker) IsChannelMember(ctx context.Context, userID int64) (bool, error) {
	member, err := m.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: m.channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get chat member: %w", err)
	}
	return activeMemberStatus(member.Status), nil
}
