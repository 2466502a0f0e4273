package audithook

// Audit event actions. Each constant corresponds to one lifecycle hook
// and becomes the Action field of the audit event.
const (
	ActionSessionStarted        = "session.started"
	ActionStepEntered           = "step.entered"
	ActionStepCompleted         = "step.completed"
	ActionValidationFailed      = "step.validation_failed"
	ActionSessionCompleted      = "session.completed"
	ActionSessionAbandoned      = "session.abandoned"
	ActionAnnouncementPublished = "announcement.published"
)

// Audit event categories group related actions.
const (
	CategorySession      = "checkout.session"
	CategoryStep         = "checkout.step"
	CategoryAnnouncement = "checkout.announcement"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceSession      = "session"
	ResourceStep         = "step"
	ResourceAnnouncement = "announcement"
)

// AllActions returns every action this hook can emit.
func AllActions() []string {
	return []string{
		ActionSessionStarted,
		ActionStepEntered,
		ActionStepCompleted,
		ActionValidationFailed,
		ActionSessionCompleted,
		ActionSessionAbandoned,
		ActionAnnouncementPublished,
	}
}
