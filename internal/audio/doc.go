// Package audio provides sound cues for panel transitions.
// It uses the beep library to play WAV, OGG, and MP3 audio files with
// volume control and per-event-kind sound configuration. Playback is
// disabled unless explicitly enabled in the daemon configuration.
package audio
