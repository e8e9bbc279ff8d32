package espn_test

import (
	"encoding/json"
	"testing"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/espn"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

const scoreboardFixture = `{
	"events": [
		{
			"id": "401559001",
			"date": "2026-02-01T23:30Z",
			"status": {
				"period": 2,
				"displayClock": "12:34",
				"type": {"state": "in", "completed": false, "shortDetail": "2nd"}
			},
			"competitions": [{
				"competitors": [
					{
						"homeAway": "home",
						"score": "3",
						"team": {"displayName": "Boston Bruins", "abbreviation": "BOS"}
					},
					{
						"homeAway": "away",
						"score": "2",
						"team": {"displayName": "New York Rangers", "abbreviation": "NYR"}
					}
				]
			}]
		},
		{
			"id": "401559002",
			"date": "2026-02-01T18:00Z",
			"status": {
				"period": 3,
				"type": {"state": "post", "completed": true, "shortDetail": "Final"}
			},
			"competitions": [{
				"competitors": [
					{
						"homeAway": "home",
						"score": "1",
						"team": {"displayName": "Toronto Maple Leafs", "abbreviation": "TOR"}
					},
					{
						"homeAway": "away",
						"score": "4",
						"team": {"displayName": "Montreal Canadiens", "abbreviation": "MTL"}
					}
				]
			}]
		},
		{"id": "broken"}
	]
}`

func TestParseScoreboard(t *testing.T) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(scoreboardFixture), &raw); err != nil {
		t.Fatalf("fixture unmarshal: %v", err)
	}

	games := espn.ParseScoreboard(raw, "nhl")
	if len(games) != 2 {
		t.Fatalf("ParseScoreboard() = %d games, want 2 (malformed event skipped)", len(games))
	}

	live := games[0]
	if live.ID != "401559001" {
		t.Errorf("ID = %s, want 401559001", live.ID)
	}
	if live.LeagueID != "nhl" {
		t.Errorf("LeagueID = %s, want nhl", live.LeagueID)
	}
	if live.Status != models.StatusIn || !live.IsLive() {
		t.Errorf("Status = %s, want in", live.Status)
	}
	if live.HomeAbbr != "BOS" || live.AwayAbbr != "NYR" {
		t.Errorf("teams = %s vs %s, want NYR@BOS", live.AwayAbbr, live.HomeAbbr)
	}
	if live.HomeScore != 3 || live.AwayScore != 2 {
		t.Errorf("score = %d-%d, want 3-2", live.HomeScore, live.AwayScore)
	}
	if live.Period != 2 || live.Clock != "12:34" {
		t.Errorf("period/clock = %d/%s, want 2/12:34", live.Period, live.Clock)
	}

	final := games[1]
	if final.Status != models.StatusPost || !final.IsFinal() {
		t.Errorf("Status = %s, want post", final.Status)
	}
	if final.PeriodLabel != "Final" {
		t.Errorf("PeriodLabel = %s, want Final", final.PeriodLabel)
	}
	if final.StartTime.IsZero() {
		t.Error("StartTime not parsed")
	}
}
