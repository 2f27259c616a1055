package tui

type state int

const (
	playingState state = iota + 1
	qualityState
	errorState
)
