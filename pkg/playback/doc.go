// ABOUTME: Playback session manager package
// ABOUTME: Owns at most one live playback per channel with rate control and ended events
// Package playback manages playback sessions for decoded audio.
//
// A Manager holds zero or one live Handle per Channel. Starting a channel
// stops its previous handle first, so the same channel never plays twice at
// once. Each handle owns exactly one output device, acquired at Start and
// released on Stop, natural completion or device failure.
//
// Handles that end on their own (not through Stop) produce exactly one
// Event, delivered after the channel has returned to idle and outside the
// manager's lock, so handlers may call back into the manager.
//
// Example:
//
//	mgr := playback.NewManager(playback.Config{
//	    OnEnded: func(ev playback.Event) { log.Printf("ended: %s", ev) },
//	})
//	defer mgr.Close()
//
//	h, err := mgr.Start(playback.ChannelSegment, buf, 0)
//	err = mgr.SetRate(1.5)
//	mgr.Stop(playback.ChannelSegment)
package playback
