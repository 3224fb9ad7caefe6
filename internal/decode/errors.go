package decode

import (
	"errors"
	"fmt"

	"github.com/journeygo/client/internal/config"
)

var (
	// ErrSectionCap means a marker-terminated section ran past its record cap.
	ErrSectionCap = errors.New("section record cap reached")
	// ErrBadMarker means a slot marker was outside the accepted range.
	ErrBadMarker = errors.New("slot marker out of range")
	// ErrBadCount means a declared record count was outside the accepted range.
	ErrBadCount = errors.New("record count out of range")
)

// SectionError locates a failure inside a larger message.
type SectionError struct {
	Section   string
	Offset    int
	Remaining int
	Err       error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s at offset %d (%d bytes left): %v", e.Section, e.Offset, e.Remaining, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// Limits bound the server-controlled counts and marker loops.
type Limits struct {
	WideMarkerCap   int
	NarrowMarkerCap int
	NarrowMarkerMax int
	MonsterBookMax  int
	CooldownMax     int
	RingSections    bool
}

func DefaultLimits() Limits {
	return LimitsFromConfig(config.Defaults().Decoder)
}

func LimitsFromConfig(cfg config.DecoderConfig) Limits {
	return Limits{
		WideMarkerCap:   cfg.WideMarkerCap,
		NarrowMarkerCap: cfg.NarrowMarkerCap,
		NarrowMarkerMax: cfg.NarrowMarkerMax,
		MonsterBookMax:  cfg.MonsterBookMax,
		CooldownMax:     cfg.CooldownMax,
		RingSections:    cfg.RingSections,
	}
}

// desynced reports whether err leaves the cursor at an unknown record
// boundary, after which nothing else in the message can be trusted.
func desynced(err error) bool {
	return err != nil && !isOnlySlotRejection(err)
}
