package api

import "fmt"

// Mode selects how clients are constructed and which headers they send.
type Mode int

const (
	// ModeBrowser is a long-lived interactive session owning one client.
	ModeBrowser Mode = iota
	// ModeServer renders one request at a time with a fresh client each.
	ModeServer
)

func (m Mode) String() string {
	switch m {
	case ModeServer:
		return "server"
	case ModeBrowser:
		return "browser"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts the configuration spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "server":
		return ModeServer, nil
	case "browser", "":
		return ModeBrowser, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}
