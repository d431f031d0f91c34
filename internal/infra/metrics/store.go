package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(chatsTotal, chainsBroken, chainsCorrupt)
}

var (
	chatsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chats_total",
		Help: "Number of chats currently registered in the index.",
	})

	chainsBroken = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chains_broken",
		Help: "Chats whose history walk hit a dangling parent reference at the last sweep.",
	})

	chainsCorrupt = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chains_corrupt",
		Help: "Chats whose stored records were unreadable or cyclic at the last sweep.",
	})
)

// SetChainHealth publishes the result of an integrity sweep.
func SetChainHealth(chats, broken, corrupt int) {
	chatsTotal.Set(float64(chats))
	chainsBroken.Set(float64(broken))
	chainsCorrupt.Set(float64(corrupt))
}
