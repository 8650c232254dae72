package domain

// StarThresholdSeconds is the cumulative reading time that earns one star:
// 900 seconds (15 minutes) per star, per book.
const StarThresholdSeconds = 900

// StarsForSeconds computes the star count for a cumulative reading time.
// Stars are a pure derived function of time: floor(t / 900).
func StarsForSeconds(t uint64) uint32 {
	return uint32(t / StarThresholdSeconds)
}

// MinutesToNextStar returns whole minutes remaining until the next star
// tier: ceil((900 - t%900) / 60). At an exact multiple of the threshold the
// full next interval (15 minutes) remains.
func MinutesToNextStar(t uint64) int {
	remaining := StarThresholdSeconds - t%StarThresholdSeconds
	return int((remaining + 59) / 60)
}

// StarProgressPercent returns progress through the current star interval as
// a percentage in [0, 100). Zero at an exact threshold multiple.
func StarProgressPercent(t uint64) float64 {
	return float64(t%StarThresholdSeconds) / StarThresholdSeconds * 100
}
