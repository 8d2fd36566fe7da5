package leaderboard

import "fmt"

func redisKeyCheckInLeaderboard(challengeID string) string {
	return fmt.Sprintf("challenge:%s:check_in", challengeID)
}
