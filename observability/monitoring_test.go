package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_Concurrent_Increments(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mm.IncrSent()
			mm.IncrReceived()
		}()
	}
	wg.Wait()
	mm.IncrSendFailures()
	mm.IncrConnections()

	stats := mm.GetLatest()
	req.Equal(uint64(50), stats.Sent)
	req.Equal(uint64(50), stats.Received)
	req.Equal(uint64(1), stats.SendFailures)
	req.Equal(uint64(0), stats.ListenerFailures)
	req.Equal(uint64(1), stats.Connections)
	req.False(stats.StartedAt.IsZero())
}
