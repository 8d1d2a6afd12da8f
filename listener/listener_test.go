package listener

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPListenerDeliversFrameWithPeerAddr(t *testing.T) {
	lsnr, err := Start(Config{Protocol: ProtocolUDP, Address: "127.0.0.1"})
	require.NoError(t, err)
	defer lsnr.Close()

	sub := lsnr.Frames().Subscribe()
	sub.Request(1)

	conn, err := net.Dial("udp", lsnr.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("<34>Oct 11 22:14:15 mymachine su: hello"))
	require.NoError(t, err)

	select {
	case frame := <-sub.C():
		assert.Equal(t, "<34>Oct 11 22:14:15 mymachine su: hello", string(frame.Data))
		assert.Equal(t, "127.0.0.1", frame.PeerAddr)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestTCPListenerDeliversMultipleFrames(t *testing.T) {
	lsnr, err := Start(Config{Protocol: ProtocolTCP, Address: "127.0.0.1"})
	require.NoError(t, err)
	defer lsnr.Close()

	sub := lsnr.Frames().Subscribe()
	sub.Request(2)

	conn, err := net.Dial("tcp", lsnr.Addr())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("first"))
	require.NoError(t, err)
	select {
	case frame := <-sub.C():
		assert.Equal(t, "first", string(frame.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first frame")
	}

	_, err = conn.Write([]byte("second"))
	require.NoError(t, err)
	select {
	case frame := <-sub.C():
		assert.Equal(t, "second", string(frame.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second frame")
	}
}

func TestListenerCloseIsIdempotentAndUnblocksSubscribers(t *testing.T) {
	lsnr, err := Start(Config{Protocol: ProtocolUDP, Address: "127.0.0.1"})
	require.NoError(t, err)

	sub := lsnr.Frames().Subscribe()
	lsnr.Close()
	lsnr.Close() // idempotent

	_, open := <-sub.C()
	assert.False(t, open)
}

func TestStartRejectsUnsupportedProtocol(t *testing.T) {
	_, err := Start(Config{Protocol: "sctp"})
	assert.Error(t, err)
}

func TestUDPListenerReportsZeroClientCount(t *testing.T) {
	lsnr, err := Start(Config{Protocol: ProtocolUDP, Address: "127.0.0.1"})
	require.NoError(t, err)
	defer lsnr.Close()

	assert.Equal(t, 0, lsnr.ClientCount())
}

// TestTCPClientRegistrySizeReturnsToPreConnectValue checks property 7: after a client disconnects,
// the listener's client-registry size returns to its pre-connect value within bounded time.
func TestTCPClientRegistrySizeReturnsToPreConnectValue(t *testing.T) {
	lsnr, err := Start(Config{Protocol: ProtocolTCP, Address: "127.0.0.1"})
	require.NoError(t, err)
	defer lsnr.Close()

	before := lsnr.ClientCount()

	conn, err := net.Dial("tcp", lsnr.Addr())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return lsnr.ClientCount() == before+1
	}, 2*time.Second, 10*time.Millisecond, "registry never reflected the new connection")

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return lsnr.ClientCount() == before
	}, 2*time.Second, 10*time.Millisecond, "registry size did not return to its pre-connect value")
}
