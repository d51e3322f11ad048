package main

// GlobalFlags holds persistent flags shared by all commands.
type GlobalFlags struct {
	ConfigPath string
	Debug      bool
}

// RunFlags holds flags for the run command.
type RunFlags struct {
	MaxFailures           int
	NotificationRecipient string
}

// RemoveFlags holds flags for the remove command.
type RemoveFlags struct {
	Purge bool
}
