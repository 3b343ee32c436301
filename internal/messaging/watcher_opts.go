package messaging

type WatcherOpt func(*Watcher)

// WithWatchPrefix sets the subject prefix to subscribe under
func WithWatchPrefix(prefix string) WatcherOpt {
	return func(w *Watcher) {
		w.prefix = prefix
	}
}

// WithWidth sets the column width entries are wrapped to
func WithWidth(width int) WatcherOpt {
	return func(w *Watcher) {
		w.width = width
	}
}
