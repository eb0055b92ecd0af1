package config

import "creativehub/internal/domain"

// Reward returns the nominal point value for a lifecycle event. The table is
// a closed switch, not an open map: an event missing here is a programming
// error surfaced as ok=false.
func Reward(event domain.XPEvent) (int64, bool) {
	switch event {
	case domain.EventBookingConfirmed:
		return 100, true
	case domain.EventFiveStarReview:
		return 50, true
	case domain.EventCreatorReferral:
		return 150, true
	case domain.EventQuickReply:
		return 10, true
	case domain.EventProfileCompleted:
		return 25, true
	default:
		return 0, false
	}
}
