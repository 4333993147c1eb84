// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/videocoin-2/videocoin-contracts/metrics"

var metricOps = metrics.LazyLoad(func() metrics.CountVecMeter {
	return metrics.CounterVec("staking_operation_count", []string{"op"})
})

func countOp(op string) {
	metricOps().AddWithLabel(1, map[string]string{"op": op})
}
