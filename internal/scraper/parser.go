// Package scraper содержит клиент для получения данных аккаунтов с удаленного сайта.
package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const sharedDataPrefix = "window._sharedData = "

// sharedData отражает JSON-блоб, встроенный в страницу профиля
type sharedData struct {
	EntryData struct {
		ProfilePage []struct {
			Graphql struct {
				User profileUser `json:"user"`
			} `json:"graphql"`
		} `json:"ProfilePage"`
		LoginAndSignupPage []json.RawMessage `json:"LoginAndSignupPage"`
	} `json:"entry_data"`
}

type profileUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Biography      string `json:"biography"`
	ExternalURL    string `json:"external_url"`
	ProfilePicURL  string `json:"profile_pic_url_hd"`
	IsPrivate      bool   `json:"is_private"`
	EdgeFollowedBy struct {
		Count int `json:"count"`
	} `json:"edge_followed_by"`
	EdgeFollow struct {
		Count int `json:"count"`
	} `json:"edge_follow"`
	EdgeTimelineMedia struct {
		Count int `json:"count"`
		Edges []struct {
			Node timelineNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_owner_to_timeline_media"`
}

type timelineNode struct {
	Shortcode        string `json:"shortcode"`
	TakenAtTimestamp int64  `json:"taken_at_timestamp"`
	IsVideo          bool   `json:"is_video"`
	EdgeMediaCaption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	EdgeLikedBy struct {
		Count int `json:"count"`
	} `json:"edge_media_preview_like"`
	EdgeComments struct {
		Count int `json:"count"`
	} `json:"edge_media_to_comment"`
}

// parseProfilePage извлекает данные профиля из HTML страницы.
// Возвращает errLoginPage, если вместо профиля отдана страница логина.
func parseProfilePage(body []byte) (*AccountData, []Post, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	raw, err := extractSharedData(doc)
	if err != nil {
		return nil, nil, err
	}

	var data sharedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to decode shared data: %w", err)
	}

	if len(data.EntryData.LoginAndSignupPage) > 0 {
		return nil, nil, errLoginPage
	}

	if len(data.EntryData.ProfilePage) == 0 {
		return nil, nil, errNoProfileData
	}

	user := data.EntryData.ProfilePage[0].Graphql.User

	account := &AccountData{
		InstagramID: user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Biography:   user.Biography,
		ExternalURL: user.ExternalURL,
		AvatarURL:   user.ProfilePicURL,
		IsPrivate:   user.IsPrivate,
		FollowedBy:  user.EdgeFollowedBy.Count,
		Follows:     user.EdgeFollow.Count,
		MediaCount:  user.EdgeTimelineMedia.Count,
	}

	posts := make([]Post, 0, len(user.EdgeTimelineMedia.Edges))
	for _, edge := range user.EdgeTimelineMedia.Edges {
		node := edge.Node
		post := Post{
			Shortcode:    node.Shortcode,
			LikeCount:    node.EdgeLikedBy.Count,
			CommentCount: node.EdgeComments.Count,
			IsVideo:      node.IsVideo,
		}
		if node.TakenAtTimestamp > 0 {
			post.TakenAt = time.Unix(node.TakenAtTimestamp, 0).UTC()
		}
		if len(node.EdgeMediaCaption.Edges) > 0 {
			post.Caption = node.EdgeMediaCaption.Edges[0].Node.Text
		}
		posts = append(posts, post)
	}

	return account, posts, nil
}

// extractSharedData находит script-блок с window._sharedData и возвращает сырой JSON
func extractSharedData(doc *goquery.Document) ([]byte, error) {
	var raw string

	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, sharedDataPrefix) {
			raw = strings.TrimSuffix(strings.TrimPrefix(text, sharedDataPrefix), ";")
			return false
		}
		return true
	})

	if raw == "" {
		return nil, errNoSharedData
	}

	return []byte(raw), nil
}

// Маркеры разбора страницы
var (
	errNoSharedData  = fmt.Errorf("shared data block not found")
	errNoProfileData = fmt.Errorf("profile data not present in shared data")
	errLoginPage     = fmt.Errorf("login and signup page served instead of profile")
)
