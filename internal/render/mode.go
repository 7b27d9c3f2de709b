package render

import (
	"fmt"
	"strings"
)

type Mode int

const (
	ModeWhole Mode = iota
	ModeProgressive
)

func (m Mode) String() string {
	switch m {
	case ModeWhole:
		return "whole"
	case ModeProgressive:
		return "progressive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "whole", "full", "":
		return ModeWhole, nil
	case "progressive", "bands":
		return ModeProgressive, nil
	default:
		return ModeWhole, fmt.Errorf("unknown mode: %s (available: whole, progressive)", s)
	}
}
