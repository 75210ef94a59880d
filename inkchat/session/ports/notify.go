package sessionports

// Notifier delivers transient, user-visible notices. It is not a structured
// error channel; messages are human-readable and fire-and-forget.
type Notifier interface {
	Notify(message string)
}
