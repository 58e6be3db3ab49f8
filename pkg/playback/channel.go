// ABOUTME: Playback channels and rates
// ABOUTME: Channel identifiers, per-channel state and the offered rate steps
package playback

import "fmt"

// Channel identifies an independent playback slot
type Channel int

const (
	// ChannelSegment plays article sentences and follows the manager rate
	ChannelSegment Channel = iota

	// ChannelVocabulary plays word pronunciations at normal speed
	ChannelVocabulary

	numChannels
)

// Channels lists every channel
var Channels = []Channel{ChannelSegment, ChannelVocabulary}

func (c Channel) String() string {
	switch c {
	case ChannelSegment:
		return "segment"
	case ChannelVocabulary:
		return "vocabulary"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Valid reports whether c is a known channel
func (c Channel) Valid() bool {
	return c >= 0 && c < numChannels
}

// ChannelState is the lifecycle state of a channel
type ChannelState int

const (
	Idle ChannelState = iota
	Active
)

func (s ChannelState) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Rates are the playback speeds offered to readers. Any positive rate is accepted.
var Rates = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// StepRate moves from current to the neighbouring entry in Rates.
// A current value between steps moves to the nearest step in that direction.
func StepRate(current float64, delta int) float64 {
	switch {
	case delta > 0:
		for _, r := range Rates {
			if r > current+1e-9 {
				return r
			}
		}
		return Rates[len(Rates)-1]
	case delta < 0:
		for i := len(Rates) - 1; i >= 0; i-- {
			if Rates[i] < current-1e-9 {
				return Rates[i]
			}
		}
		return Rates[0]
	default:
		return current
	}
}
