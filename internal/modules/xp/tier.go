package xp

import "creativehub/internal/domain"

// ClassifyTier maps cumulative XP to a tier. A frozen tier is returned
// unchanged regardless of XP; otherwise the highest threshold not exceeding
// totalXP wins. The function makes no monotonicity assumption about totalXP:
// any value classifies.
func ClassifyTier(totalXP int64, frozen bool, current domain.Tier, verifiedXP, signatureXP int64) domain.Tier {
	if frozen {
		return current
	}
	switch {
	case totalXP >= signatureXP:
		return domain.TierSignature
	case totalXP >= verifiedXP:
		return domain.TierVerified
	default:
		return domain.TierStandard
	}
}
