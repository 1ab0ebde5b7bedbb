package ledger

import (
	"context"
	"fmt"

	"github.com/plus3/chaintris/progression"
)

// Attach resolves the player, loads the mission catalog and the player's
// profile from svc, and returns a tracker seeded with that profile.
func Attach(ctx context.Context, svc Service, id Identity, opts ...progression.Option) (*progression.Tracker, string, error) {
	if id == nil {
		return nil, "", ErrNoIdentity
	}
	playerID, err := id.PlayerID(ctx)
	if err != nil {
		return nil, "", err
	}

	missions, err := svc.ListMissions(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list missions: %w", err)
	}
	tracker, err := progression.NewTracker(missions, progression.RewardTraits(missions), opts...)
	if err != nil {
		return nil, "", err
	}

	profile, err := svc.GetOrCreateProfile(ctx, playerID)
	if err != nil {
		return nil, "", fmt.Errorf("load profile %q: %w", playerID, err)
	}
	tracker.Restore(profile)
	return tracker, playerID, nil
}
