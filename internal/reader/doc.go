// ABOUTME: Reader package applying lesson playback rules
// ABOUTME: Binds one article to the decoder and the playback manager
// Package reader implements point-reading over a lesson.
//
// Selecting the playing segment again stops it; selecting another segment
// switches to it once its audio has decoded. Vocabulary words always restart
// the word channel at normal speed. Items without audio are reported as
// ErrNoAudio and never touch playback state.
package reader
