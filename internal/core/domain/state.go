package domain

type ScreeningState string

const (
	StateIdle            ScreeningState = "idle"
	StateCollectingInput ScreeningState = "collecting_input"
	StateExtracting      ScreeningState = "extracting"
	StateAnalyzing       ScreeningState = "analyzing"
	StateDisplaying      ScreeningState = "displaying"
	StateStoring         ScreeningState = "storing"
	StateDone            ScreeningState = "done"
)
