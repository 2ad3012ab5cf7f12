package notes

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	bassChannel  = 1
	chordChannel = 2
	drumChannel  = 9

	bassProgram  = 32
	chordProgram = 0

	bassLowNote   = 36
	bassHoldTicks = 480

	chordHoldTicks = 240

	kickNote      = 36
	kickVelocity  = 100
	snareNote     = 38
	snareVelocity = 80
	drumHoldTicks = 100
)

// accompaniment derives bass, chord and drum tracks from the data track.
//
// The walk is over every message of the data track: i is the message index
// (note-ons sit at even indices) and t is the delta of the previous message.
func accompaniment(data smf.Track) []smf.Track {
	var bass, chords, drums smf.Track
	bass.Add(0, midi.ProgramChange(bassChannel, bassProgram))
	chords.Add(0, midi.ProgramChange(chordChannel, chordProgram))

	var t uint32
	for i, ev := range data {
		var ch, note, vel uint8
		if midi.Message(ev.Message).GetNoteOn(&ch, &note, &vel) {
			root := note%12 + bassLowNote
			bass.Add(t, midi.NoteOn(bassChannel, root, vel/2))
			bass.Add(bassHoldTicks, midi.NoteOffVelocity(bassChannel, root, vel/2))

			triad := [3]uint8{note, (note + 4) % 128, (note + 7) % 128}
			for _, n := range triad {
				chords.Add(0, midi.NoteOn(chordChannel, n, vel/3))
			}
			for _, n := range triad {
				chords.Add(chordHoldTicks, midi.NoteOffVelocity(chordChannel, n, vel/3))
			}

			switch i % 4 {
			case 0:
				drums.Add(t, midi.NoteOn(drumChannel, kickNote, kickVelocity))
				drums.Add(drumHoldTicks, midi.NoteOffVelocity(drumChannel, kickNote, kickVelocity))
			case 2:
				drums.Add(t, midi.NoteOn(drumChannel, snareNote, snareVelocity))
				drums.Add(drumHoldTicks, midi.NoteOffVelocity(drumChannel, snareNote, snareVelocity))
			}
		}
		t = ev.Delta
	}
	return []smf.Track{bass, chords, drums}
}
