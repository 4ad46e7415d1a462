package viewstate

// Mode is the edit mode derived from the editing-start and cursor flags
type Mode int

const (
	// SelectingStart: the next map click sets the start point
	SelectingStart Mode = iota
	// SelectingEnd: the next map click sets the end point
	SelectingEnd
	// CursorMode: map clicks leave the selection alone
	CursorMode
)

func (m Mode) String() string {
	switch m {
	case SelectingStart:
		return "selecting_start"
	case SelectingEnd:
		return "selecting_end"
	case CursorMode:
		return "cursor"
	default:
		return "unknown"
	}
}

func modeOf(editingStart, cursorMode bool) Mode {
	if cursorMode {
		return CursorMode
	}
	if editingStart {
		return SelectingStart
	}
	return SelectingEnd
}
