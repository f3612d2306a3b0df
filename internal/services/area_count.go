package services

import "delivery-area-service/internal/domain"

// AreaCount selects how many delivery areas n resolved recipients are split
// into: the explicit override when set, otherwise ceil(n / maxPerArea).
// The result is clamped to [1, n]; n == 0 yields 0.
func AreaCount(n int, cfg domain.PlanConfig) int {
	if n <= 0 {
		return 0
	}

	var k int
	if cfg.AreaCountOverride != nil {
		k = *cfg.AreaCountOverride
	} else {
		// Ceiling division keeps every area at or under maxPerArea members.
		k = (n + cfg.MaxPerArea - 1) / cfg.MaxPerArea
	}

	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}
