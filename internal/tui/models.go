package tui

type View int

const (
	ViewBrowse View = iota
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}
