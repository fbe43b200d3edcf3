package scraper

import (
	"errors"
	"testing"
	"time"
)

const profilePageHTML = `<!DOCTYPE html>
<html>
<head><title>alice</title></head>
<body>
<script type="text/javascript">window._sharedData = {
  "entry_data": {
    "ProfilePage": [{
      "graphql": {
        "user": {
          "id": "123",
          "username": "alice",
          "full_name": "Alice A.",
          "biography": "just alice",
          "external_url": "https://alice.example.com",
          "profile_pic_url_hd": "https://cdn.example.com/alice.jpg",
          "is_private": false,
          "edge_followed_by": {"count": 1500},
          "edge_follow": {"count": 320},
          "edge_owner_to_timeline_media": {
            "count": 42,
            "edges": [
              {"node": {
                "shortcode": "AbC123",
                "taken_at_timestamp": 1530000000,
                "is_video": false,
                "edge_media_to_caption": {"edges": [{"node": {"text": "first"}}]},
                "edge_media_preview_like": {"count": 10},
                "edge_media_to_comment": {"count": 2}
              }},
              {"node": {
                "shortcode": "DeF456",
                "taken_at_timestamp": 1530100000,
                "is_video": true,
                "edge_media_to_caption": {"edges": []},
                "edge_media_preview_like": {"count": 5},
                "edge_media_to_comment": {"count": 0}
              }}
            ]
          }
        }
      }
    }]
  }
};</script>
</body>
</html>`

const loginPageHTML = `<!DOCTYPE html>
<html>
<body>
<script type="text/javascript">window._sharedData = {
  "entry_data": {
    "LoginAndSignupPage": [{}]
  }
};</script>
</body>
</html>`

func TestParseProfilePage(t *testing.T) {
	account, posts, err := parseProfilePage([]byte(profilePageHTML))
	if err != nil {
		t.Fatalf("parseProfilePage() error = %v", err)
	}

	if account.InstagramID != "123" {
		t.Errorf("InstagramID = %q, want 123", account.InstagramID)
	}
	if account.Username != "alice" {
		t.Errorf("Username = %q, want alice", account.Username)
	}
	if account.IsPrivate {
		t.Error("IsPrivate should be false")
	}
	if account.FollowedBy != 1500 || account.Follows != 320 {
		t.Errorf("counts = %d/%d, want 1500/320", account.FollowedBy, account.Follows)
	}
	if account.MediaCount != 42 {
		t.Errorf("MediaCount = %d, want 42", account.MediaCount)
	}

	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Shortcode != "AbC123" || posts[0].Caption != "first" {
		t.Errorf("posts[0] = %+v", posts[0])
	}
	if posts[0].LikeCount != 10 || posts[0].CommentCount != 2 {
		t.Errorf("posts[0] counts = %d/%d", posts[0].LikeCount, posts[0].CommentCount)
	}
	if want := time.Unix(1530000000, 0).UTC(); !posts[0].TakenAt.Equal(want) {
		t.Errorf("posts[0].TakenAt = %v, want %v", posts[0].TakenAt, want)
	}
	if !posts[1].IsVideo {
		t.Error("posts[1] should be a video")
	}
	if posts[1].Caption != "" {
		t.Errorf("posts[1].Caption = %q, want empty", posts[1].Caption)
	}
}

func TestParseProfilePage_LoginPage(t *testing.T) {
	_, _, err := parseProfilePage([]byte(loginPageHTML))
	if !errors.Is(err, errLoginPage) {
		t.Errorf("error = %v, want errLoginPage", err)
	}
}

func TestParseProfilePage_NoSharedData(t *testing.T) {
	_, _, err := parseProfilePage([]byte(`<html><body><p>nothing here</p></body></html>`))
	if !errors.Is(err, errNoSharedData) {
		t.Errorf("error = %v, want errNoSharedData", err)
	}
}
