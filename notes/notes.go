// Package notes maps bytes to a sequence of note events stored as a Standard
// MIDI File, and maps the first track of such a file back to bytes.
//
// The mapping is not a bijection. Velocity keeps only the high six bits of a
// byte and is clamped on the way back, so decoding yields
//
//	b%64 + min(192, b - b%4)
//
// which equals b only when b%64 < 4 or b >= 192. That is the observable
// format and must not be corrected here.
package notes

import (
	"bytes"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"xdao.co/transcode/codec"
)

const (
	// BaseNote is the MIDI note for byte value 0 (C3).
	BaseNote = 48
	// NoteRange is how many consecutive notes carry the low bits of a byte.
	NoteRange = 64
	// MinVelocity is the velocity for a byte whose high bits are zero.
	MinVelocity = 40
	// MaxVelocity is the MIDI velocity ceiling.
	MaxVelocity = 127

	// maxVelocityPart caps the high-bit contribution recovered from a velocity.
	maxVelocityPart = 192

	// DefaultTicksPerBeat is the SMF time division when none is configured.
	DefaultTicksPerBeat = 480
	// DefaultStepTicks is the spacing between note-on events.
	DefaultStepTicks = 120
)

// Mode selects whether accompaniment tracks are added.
type Mode string

const (
	Raw     Mode = "raw"
	Musical Mode = "musical"
)

// ParseMode accepts "raw", "musical", or "" (raw).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Raw:
		return Raw, nil
	case Musical:
		return Musical, nil
	default:
		return "", codec.New(codec.KindInvalidEncoding, codec.RuleNotesMode, fmt.Sprintf("unknown note mode %q", s))
	}
}

// Options controls timing of the data track. Zero values select defaults.
type Options struct {
	TicksPerBeat uint16
	StepTicks    uint32
}

func (o Options) ticksPerBeat() uint16 {
	if o.TicksPerBeat > 0 {
		return o.TicksPerBeat
	}
	return DefaultTicksPerBeat
}

func (o Options) step() uint32 {
	if o.StepTicks > 0 {
		return o.StepTicks
	}
	return DefaultStepTicks
}

// Event is one byte rendered as a note. Delta precedes the note-on; the
// matching note-off always follows after the step length.
type Event struct {
	Note     uint8
	Velocity uint8
	Delta    uint32
}

// NoteFor returns the note number for b.
func NoteFor(b byte) uint8 { return BaseNote + b%NoteRange }

// VelocityFor returns the velocity for b.
func VelocityFor(b byte) uint8 {
	return uint8(clamp(MinVelocity+int(b>>2), MinVelocity, MaxVelocity))
}

// ByteFor inverts NoteFor/VelocityFor as far as the format allows.
func ByteFor(note, velocity uint8) byte {
	offset := ((int(note)-BaseNote)%NoteRange + NoteRange) % NoteRange
	part := clamp((int(velocity)-MinVelocity)<<2, 0, maxVelocityPart)
	return byte((offset + part) % 256)
}

// Events returns the note events for payload: delta 0 before the first
// note-on and step before every later one.
func Events(payload []byte, step uint32) []Event {
	out := make([]Event, len(payload))
	for i, b := range payload {
		var delta uint32
		if i > 0 {
			delta = step
		}
		out[i] = Event{Note: NoteFor(b), Velocity: VelocityFor(b), Delta: delta}
	}
	return out
}

// Encode renders payload as a format 1 Standard MIDI File. Musical mode adds
// bass, chord and drum tracks after the data track; decoding ignores them.
func Encode(payload []byte, mode Mode, opts Options) ([]byte, error) {
	if mode != Raw && mode != Musical {
		return nil, codec.New(codec.KindInvalidEncoding, codec.RuleNotesMode, fmt.Sprintf("unknown note mode %q", mode))
	}
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(opts.ticksPerBeat())

	data := dataTrack(payload, opts.step())
	tracks := []smf.Track{data}
	if mode == Musical {
		tracks = append(tracks, accompaniment(data)...)
	}
	for _, tr := range tracks {
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return nil, codec.Wrap(codec.KindInternal, codec.RuleNotesContainer, "add track", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, codec.Wrap(codec.KindInternal, codec.RuleNotesContainer, "write note file", err)
	}
	return buf.Bytes(), nil
}

// Decode reads the first track of carrier and returns one byte per note-on.
func Decode(carrier []byte) ([]byte, error) {
	s, err := smf.ReadFrom(bytes.NewReader(carrier))
	if err != nil {
		return nil, codec.Wrap(codec.KindMalformedCarrier, codec.RuleNotesContainer, "could not read note file", err)
	}
	if len(s.Tracks) == 0 {
		return nil, codec.New(codec.KindMalformedCarrier, codec.RuleNotesNoTracks, "note file has no tracks")
	}
	out := []byte{}
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		if midi.Message(ev.Message).GetNoteOn(&ch, &key, &vel) {
			out = append(out, ByteFor(key, vel))
		}
	}
	return out, nil
}

func dataTrack(payload []byte, step uint32) smf.Track {
	var tr smf.Track
	for _, ev := range Events(payload, step) {
		tr.Add(ev.Delta, midi.NoteOn(0, ev.Note, ev.Velocity))
		tr.Add(step, midi.NoteOffVelocity(0, ev.Note, ev.Velocity))
	}
	return tr
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
