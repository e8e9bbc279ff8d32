package espn

import (
	"fmt"
	"strconv"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

// ParseScoreboard converts a scoreboard response into game records for
// a league. Events that cannot be parsed are skipped rather than
// failing the whole poll.
func ParseScoreboard(raw map[string]interface{}, leagueID string) []models.Game {
	events := extractArray(raw, "events")
	games := make([]models.Game, 0, len(events))
	for _, ev := range events {
		event, ok := ev.(map[string]interface{})
		if !ok {
			continue
		}
		game, err := ParseEvent(event, leagueID)
		if err != nil {
			continue
		}
		games = append(games, game)
	}
	return games
}

// ParseEvent converts one scoreboard event into a Game
func ParseEvent(event map[string]interface{}, leagueID string) (models.Game, error) {
	game := models.Game{
		ID:        extractString(event, "id"),
		LeagueID:  leagueID,
		UpdatedAt: time.Now(),
	}
	if game.ID == "" {
		return models.Game{}, fmt.Errorf("event has no id")
	}

	if dateStr := extractString(event, "date"); dateStr != "" {
		game.StartTime = parseEventTime(dateStr)
	}

	status := extractMap(event, "status")
	statusType := extractMap(status, "type")
	game.Status = parseState(statusType)
	game.Period = extractInt(status, "period")
	game.PeriodLabel = extractString(statusType, "shortDetail")
	game.Clock = extractString(status, "displayClock")

	competitions := extractArray(event, "competitions")
	if len(competitions) == 0 {
		return models.Game{}, fmt.Errorf("no competitions in event %s", game.ID)
	}
	comp, ok := competitions[0].(map[string]interface{})
	if !ok {
		return models.Game{}, fmt.Errorf("malformed competition in event %s", game.ID)
	}

	competitors := extractArray(comp, "competitors")
	if len(competitors) < 2 {
		return models.Game{}, fmt.Errorf("insufficient competitors in event %s", game.ID)
	}

	for _, ci := range competitors {
		competitor, ok := ci.(map[string]interface{})
		if !ok {
			continue
		}
		team := extractMap(competitor, "team")
		name := extractString(team, "displayName")
		abbr := extractString(team, "abbreviation")
		score := extractInt(competitor, "score")

		switch extractString(competitor, "homeAway") {
		case "home":
			game.HomeTeam, game.HomeAbbr, game.HomeScore = name, abbr, score
		case "away":
			game.AwayTeam, game.AwayAbbr, game.AwayScore = name, abbr, score
		}
	}

	return game, nil
}

// parseState maps the ESPN status state field onto GameStatus
func parseState(statusType map[string]interface{}) models.GameStatus {
	if completed, ok := statusType["completed"].(bool); ok && completed {
		return models.StatusPost
	}
	switch extractString(statusType, "state") {
	case "in":
		return models.StatusIn
	case "post":
		return models.StatusPost
	default:
		return models.StatusPre
	}
}

// parseEventTime parses the ESPN date format, which drops seconds
// ("2026-02-01T23:30Z") but sometimes includes them
func parseEventTime(dateStr string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04Z07:00", time.RFC3339} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t
		}
	}
	return time.Time{}
}

// extractString safely extracts a string from a map
func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// extractInt safely extracts an int from a map
func extractInt(m map[string]interface{}, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case int:
		return val
	default:
		return 0
	}
}

// extractMap safely extracts a map from a map
func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

// extractArray safely extracts an array from a map
func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}
