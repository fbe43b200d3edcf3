package repository

import (
	"context"
	"testing"
	"time"

	"igmonitor/internal/config"
	"igmonitor/internal/model"
	"igmonitor/internal/refresher"
	"igmonitor/internal/scraper"

	"go.uber.org/zap"
)

// fakeAccounts записывает обновленные аккаунты
type fakeAccounts struct {
	updated []*model.Account
}

func (f *fakeAccounts) GetByID(id int64) (*model.Account, error)              { return nil, nil }
func (f *fakeAccounts) GetByUsername(username string) (*model.Account, error) { return nil, nil }
func (f *fakeAccounts) GetDue(limit int) ([]model.Account, error)             { return nil, nil }
func (f *fakeAccounts) Create(account *model.Account) error                   { return nil }
func (f *fakeAccounts) Delete(id int64) error                                 { return nil }
func (f *fakeAccounts) Update(account *model.Account) error {
	f.updated = append(f.updated, account)
	return nil
}

// fakeMedia записывает сохраненные посты
type fakeMedia struct {
	upserted [][]model.Media
}

func (f *fakeMedia) GetByAccount(accountID int64) ([]model.Media, error) { return nil, nil }
func (f *fakeMedia) Delete(id int64) error                               { return nil }
func (f *fakeMedia) Upsert(media []model.Media) error {
	f.upserted = append(f.upserted, media)
	return nil
}

var testPolicy = config.RefreshConfig{
	StandardInterval:    24 * time.Hour,
	FailureBackoff:      time.Hour,
	LoginWallRetryDelay: 10 * time.Minute,
}

func newTestWriter() (*RefreshWriter, *fakeAccounts, *fakeMedia, time.Time) {
	accounts := &fakeAccounts{}
	media := &fakeMedia{}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	writer := NewRefreshWriter(accounts, media, testPolicy, zap.NewNop())
	writer.now = func() time.Time { return now }

	return writer, accounts, media, now
}

func TestRefreshWriter_PersistUpdated(t *testing.T) {
	writer, accounts, _, now := newTestWriter()
	account := &model.Account{AccountID: 1, Username: "alice", InvalidationType: model.InvalidationGeneric, IsValid: false}

	decision := refresher.Decision{
		Outcome: refresher.OutcomeUpdated,
		Policy:  refresher.PolicyStandard,
		Data: &scraper.AccountData{
			InstagramID: "123",
			Username:    "alice",
			FullName:    "Alice A.",
			FollowedBy:  1500,
			Follows:     320,
			MediaCount:  42,
		},
	}

	if err := writer.Persist(context.Background(), account, decision); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	if len(accounts.updated) != 1 {
		t.Fatalf("updated = %d accounts, want 1", len(accounts.updated))
	}

	if !account.IsValid || account.InvalidationType != model.InvalidationNone {
		t.Errorf("successful refresh must clear invalidation, got %v/%v", account.IsValid, account.InvalidationType)
	}
	if account.InstagramID != "123" || account.FollowedBy != 1500 {
		t.Errorf("profile data not applied: %+v", account)
	}
	if want := now.Add(24 * time.Hour); !account.NextStatsUpdateAt.Equal(want) {
		t.Errorf("NextStatsUpdateAt = %v, want %v", account.NextStatsUpdateAt, want)
	}
}

func TestRefreshWriter_PersistRenameTracking(t *testing.T) {
	writer, _, _, _ := newTestWriter()
	account := &model.Account{AccountID: 1, Username: "alice_old"}

	decision := refresher.Decision{
		Outcome: refresher.OutcomeUpdated,
		Policy:  refresher.PolicyStandard,
		Data:    &scraper.AccountData{InstagramID: "123", Username: "alice"},
	}

	if err := writer.Persist(context.Background(), account, decision); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	if account.Username != "alice" {
		t.Errorf("Username = %q, want alice", account.Username)
	}
	if account.FormerUsername != "alice_old" {
		t.Errorf("FormerUsername = %q, want alice_old", account.FormerUsername)
	}
}

func TestRefreshWriter_PersistInvalidation(t *testing.T) {
	tests := []struct {
		name    string
		outcome refresher.OutcomeKind
		policy  refresher.NextUpdatePolicy
		want    model.InvalidationType
		delay   time.Duration
	}{
		{"not found", refresher.OutcomeMarkedNotFound, refresher.PolicyImmediate, model.InvalidationNotFound, time.Hour},
		{"restricted", refresher.OutcomeMarkedRestricted, refresher.PolicyImmediate, model.InvalidationRestricted, time.Hour},
		{"generic", refresher.OutcomeMarkedGenericFailure, refresher.PolicyImmediate, model.InvalidationGeneric, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, _, _, now := newTestWriter()
			account := &model.Account{AccountID: 1, Username: "alice", IsValid: true}

			decision := refresher.Decision{Outcome: tt.outcome, Policy: tt.policy}
			if err := writer.Persist(context.Background(), account, decision); err != nil {
				t.Fatalf("Persist() error = %v", err)
			}

			if account.IsValid {
				t.Error("account must be marked invalid")
			}
			if account.InvalidationType != tt.want {
				t.Errorf("InvalidationType = %v, want %v", account.InvalidationType, tt.want)
			}
			if want := now.Add(tt.delay); !account.NextStatsUpdateAt.Equal(want) {
				t.Errorf("NextStatsUpdateAt = %v, want %v", account.NextStatsUpdateAt, want)
			}
		})
	}
}

func TestRefreshWriter_PersistPrivate(t *testing.T) {
	writer, _, _, _ := newTestWriter()
	account := &model.Account{AccountID: 1, Username: "alice"}

	decision := refresher.Decision{
		Outcome: refresher.OutcomeMarkedPrivate,
		Policy:  refresher.PolicyImmediate,
		Data:    &scraper.AccountData{InstagramID: "123", Username: "alice", IsPrivate: true, FollowedBy: 10},
	}

	if err := writer.Persist(context.Background(), account, decision); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	if !account.IsPrivate {
		t.Error("account must be marked private")
	}
	if account.InvalidationType != model.InvalidationPrivate {
		t.Errorf("InvalidationType = %v", account.InvalidationType)
	}
	if account.FollowedBy != 10 {
		t.Error("public counters of a private profile should still be stored")
	}
}

func TestRefreshWriter_PersistRetryLater(t *testing.T) {
	writer, _, _, now := newTestWriter()
	account := &model.Account{AccountID: 1, Username: "alice", IsValid: true, InvalidationType: model.InvalidationNone}

	decision := refresher.Decision{Outcome: refresher.OutcomeRetryLater, Policy: refresher.PolicyNearRetry}
	if err := writer.Persist(context.Background(), account, decision); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	// Login wall говорит о прокси: валидность аккаунта не трогается
	if !account.IsValid || account.InvalidationType != model.InvalidationNone {
		t.Errorf("retry later must not touch validity, got %v/%v", account.IsValid, account.InvalidationType)
	}
	if want := now.Add(10 * time.Minute); !account.NextStatsUpdateAt.Equal(want) {
		t.Errorf("NextStatsUpdateAt = %v, want %v", account.NextStatsUpdateAt, want)
	}
}

func TestRefreshWriter_AttachPosts(t *testing.T) {
	writer, _, media, _ := newTestWriter()
	account := &model.Account{AccountID: 5, Username: "alice"}

	posts := []scraper.Post{
		{Shortcode: "a", Caption: "first", LikeCount: 10, CommentCount: 2},
		{Shortcode: "b", IsVideo: true},
	}

	if err := writer.AttachPosts(context.Background(), account, posts); err != nil {
		t.Fatalf("AttachPosts() error = %v", err)
	}

	if len(media.upserted) != 1 || len(media.upserted[0]) != 2 {
		t.Fatalf("upserted = %+v", media.upserted)
	}

	first := media.upserted[0][0]
	if first.AccountID != 5 || first.Shortcode != "a" || first.LikeCount != 10 {
		t.Errorf("first media = %+v", first)
	}

	// Пустой список постов не трогает хранилище
	if err := writer.AttachPosts(context.Background(), account, nil); err != nil {
		t.Fatalf("AttachPosts(nil) error = %v", err)
	}
	if len(media.upserted) != 1 {
		t.Error("empty post list must not hit the repository")
	}
}
