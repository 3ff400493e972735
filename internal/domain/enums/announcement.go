package enums

type AnnouncementType string

const (
	AnnouncementTypeInfo    AnnouncementType = "info"
	AnnouncementTypeWarning AnnouncementType = "warning"
	AnnouncementTypeSuccess AnnouncementType = "success"
	AnnouncementTypeError   AnnouncementType = "error"
)

func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementTypeInfo, AnnouncementTypeWarning, AnnouncementTypeSuccess, AnnouncementTypeError:
		return true
	default:
		return false
	}
}

type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "low"
	AnnouncementPriorityMedium AnnouncementPriority = "medium"
	AnnouncementPriorityHigh   AnnouncementPriority = "high"
)

func (p AnnouncementPriority) Valid() bool {
	switch p {
	case AnnouncementPriorityLow, AnnouncementPriorityMedium, AnnouncementPriorityHigh:
		return true
	default:
		return false
	}
}
