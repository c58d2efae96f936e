package tui

// runMsg carries pipeline work onto the bubbletea update loop. Every
// settled filter value, pumped record and fed document arrives this way,
// so the view recomputes on the same goroutine that renders it.
type runMsg func()
