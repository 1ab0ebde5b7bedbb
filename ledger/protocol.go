package ledger

import (
	"errors"
	"fmt"

	"github.com/plus3/chaintris/progression"
)

// Wire protocol between Client and Server: one JSON request per text
// frame, answered by one response frame carrying the same id.

const (
	opGetOrCreateProfile    = "get_or_create_profile"
	opListMissions          = "list_missions"
	opReportMissionProgress = "report_mission_progress"
	opReportTraitXP         = "report_trait_xp"
	opReportGameResult      = "report_game_result"
)

type request struct {
	ID        uint64                       `json:"id"`
	Op        string                       `json:"op"`
	PlayerID  string                       `json:"player_id,omitempty"`
	MissionID string                       `json:"mission_id,omitempty"`
	TraitID   string                       `json:"trait_id,omitempty"`
	Progress  *progression.MissionProgress `json:"progress,omitempty"`
	Stats     *progression.Event           `json:"stats,omitempty"`
	Delta     int                          `json:"delta,omitempty"`
	Result    *progression.GameResult      `json:"result,omitempty"`
}

type response struct {
	ID       uint64                   `json:"id"`
	Error    string                   `json:"error,omitempty"`
	Code     string                   `json:"code,omitempty"`
	Profile  *progression.Profile     `json:"profile,omitempty"`
	Missions []progression.MissionDef `json:"missions,omitempty"`
}

const (
	codeNotFound   = "not_found"
	codeNoIdentity = "no_identity"
	codeBadRequest = "bad_request"
	codeInternal   = "internal"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return codeNotFound
	case errors.Is(err, ErrNoIdentity):
		return codeNoIdentity
	default:
		return codeInternal
	}
}

// remoteError rebuilds an error from a response so callers can still match
// the sentinel errors with errors.Is.
func remoteError(resp response) error {
	if resp.Error == "" {
		return nil
	}
	switch resp.Code {
	case codeNotFound:
		return fmt.Errorf("remote: %s: %w", resp.Error, ErrNotFound)
	case codeNoIdentity:
		return fmt.Errorf("remote: %s: %w", resp.Error, ErrNoIdentity)
	default:
		return fmt.Errorf("remote: %s", resp.Error)
	}
}
