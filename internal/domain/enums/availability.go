package enums

type Availability string

const (
	AvailabilityWeekdays Availability = "weekdays"
	AvailabilityWeekends Availability = "weekends"
	AvailabilityEvenings Availability = "evenings"
	AvailabilityFlexible Availability = "flexible"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityWeekdays, AvailabilityWeekends, AvailabilityEvenings, AvailabilityFlexible:
		return true
	default:
		return false
	}
}
