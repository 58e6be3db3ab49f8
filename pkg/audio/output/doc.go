// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides per-playback Device handles over malgo, oto, PortAudio and a null sink
// Package output provides audio playback devices.
//
// A Backend opens one Device per playback. The device pulls interleaved
// float frames from a Source on the audio thread and closes Done() once the
// source has drained, or when the device fails. Close releases everything
// the device acquired and is safe to call more than once.
//
// Backends:
//   - malgo: one miniaudio context and device per playback (default)
//   - oto: a process-wide oto context, one player per playback
//   - portaudio: one PortAudio stream per playback (build with -tags portaudio)
//   - null: discards audio in real time, for headless runs and tests
//
// Example:
//
//	backend, err := output.NewBackend("malgo")
//	dev, err := backend.Open(backend.Format(buf.Format()), stream)
//	err = dev.Start()
//	<-dev.Done()
//	dev.Close()
package output
