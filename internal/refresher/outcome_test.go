package refresher

import (
	"fmt"
	"testing"

	"igmonitor/internal/model"
	"igmonitor/internal/scraper"
)

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantOutcome OutcomeKind
		wantPolicy  NextUpdatePolicy
	}{
		{
			name:        "not found",
			err:         scraper.NewError(scraper.KindNotFound, "alice", nil),
			wantOutcome: OutcomeMarkedNotFound,
			wantPolicy:  PolicyImmediate,
		},
		{
			name:        "restricted",
			err:         scraper.NewError(scraper.KindRestricted, "alice", nil),
			wantOutcome: OutcomeMarkedRestricted,
			wantPolicy:  PolicyImmediate,
		},
		{
			name:        "login wall",
			err:         scraper.NewError(scraper.KindLoginWall, "alice", nil),
			wantOutcome: OutcomeRetryLater,
			wantPolicy:  PolicyNearRetry,
		},
		{
			name:        "transport",
			err:         scraper.NewError(scraper.KindTransport, "alice", fmt.Errorf("timeout")),
			wantOutcome: OutcomeMarkedGenericFailure,
			wantPolicy:  PolicyImmediate,
		},
		{
			name:        "ошибка вне таксономии считается generic",
			err:         fmt.Errorf("something else"),
			wantOutcome: OutcomeMarkedGenericFailure,
			wantPolicy:  PolicyImmediate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Classify(nil, nil, tt.err)
			if decision.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", decision.Outcome, tt.wantOutcome)
			}
			if decision.Policy != tt.wantPolicy {
				t.Errorf("Policy = %v, want %v", decision.Policy, tt.wantPolicy)
			}
		})
	}
}

func TestClassify_Success(t *testing.T) {
	posts := []scraper.Post{{Shortcode: "a"}, {Shortcode: "b"}}

	public := Classify(&scraper.AccountData{Username: "alice"}, posts, nil)
	if public.Outcome != OutcomeUpdated || public.Policy != PolicyStandard {
		t.Errorf("public profile: %v/%v", public.Outcome, public.Policy)
	}
	if len(public.Posts) != 2 {
		t.Errorf("len(Posts) = %d, want 2", len(public.Posts))
	}

	private := Classify(&scraper.AccountData{Username: "alice", IsPrivate: true}, nil, nil)
	if private.Outcome != OutcomeMarkedPrivate || private.Policy != PolicyImmediate {
		t.Errorf("private profile: %v/%v", private.Outcome, private.Policy)
	}
}

// Классификация — чистая функция: одинаковый вход дает одинаковое решение
func TestClassify_Idempotent(t *testing.T) {
	err := scraper.NewError(scraper.KindTransport, "alice", fmt.Errorf("timeout"))

	first := Classify(nil, nil, err)
	second := Classify(nil, nil, err)

	if first.Outcome != second.Outcome || first.Policy != second.Policy {
		t.Errorf("classification is not stable: %v/%v vs %v/%v",
			first.Outcome, first.Policy, second.Outcome, second.Policy)
	}
}

func TestDecision_Invalidation(t *testing.T) {
	tests := []struct {
		outcome     OutcomeKind
		want        model.InvalidationType
		wantChanged bool
	}{
		{OutcomeUpdated, model.InvalidationNone, true},
		{OutcomeMarkedPrivate, model.InvalidationPrivate, true},
		{OutcomeMarkedNotFound, model.InvalidationNotFound, true},
		{OutcomeMarkedRestricted, model.InvalidationRestricted, true},
		{OutcomeMarkedGenericFailure, model.InvalidationGeneric, true},
		{OutcomeRetryLater, model.InvalidationNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			got, changed := Decision{Outcome: tt.outcome}.Invalidation()
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("Invalidation() = %v/%v, want %v/%v", got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}
