// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

// TranscoderState is the derived lifecycle state of a transcoder. It is
// recomputed from the ledgers and the clock on every query; only the jailed
// flag is persisted.
type TranscoderState uint8

const (
	// StateUnregistered means no registration exists.
	StateUnregistered TranscoderState = iota
	// StateBonding means the transcoder has not yet met the approval period
	// or the self-stake threshold.
	StateBonding
	// StateBonded means the approval period elapsed and the settled self
	// stake covers the effective minimum.
	StateBonded
	// StateUnbonding means the self stake is in flight: pending unbonding
	// requests could still cover the minimum once they lapse.
	StateUnbonding
	// StateUnbonded means the transcoder is jailed.
	StateUnbonded
)

func (s TranscoderState) String() string {
	switch s {
	case StateUnregistered:
		return "UNREGISTERED"
	case StateBonding:
		return "BONDING"
	case StateBonded:
		return "BONDED"
	case StateUnbonding:
		return "UNBONDING"
	case StateUnbonded:
		return "UNBONDED"
	default:
		return "UNKNOWN"
	}
}
