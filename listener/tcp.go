package listener

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loglane/syslogcore/defs"
	"github.com/loglane/syslogcore/metrics"
	"github.com/loglane/syslogcore/netutil"
	"github.com/loglane/syslogcore/pipeline"
	"github.com/puzpuzpuz/xsync"
	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
)

const (
	tcpReadBufferMax = 8 * 1024 * 1024
	tcpReadBufferMin = 65536
)

type tcpClient struct {
	conn   *net.TCPConn
	abort  *channels.SignalAwaitable
	logger logger.Logger
}

func startTCP(log logger.Logger, cfg Config, frames *pipeline.Dispatcher[Frame]) (*Listener, error) {
	addr := &net.TCPAddr{Port: cfg.Port}
	if cfg.Address != "" {
		addr.IP = net.ParseIP(cfg.Address)
	}
	socket, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, err
	}
	boundAddr := socket.Addr().String()
	log = log.WithField("address", boundAddr)
	log.Info("start accept loop")

	clients := xsync.NewMapOf[*tcpClient]()
	var nextClientID int64
	var taskCounter sync.WaitGroup
	taskCounter.Add(1)
	stopped := channels.NewWaitGroupAwaitable(&taskCounter)
	stopRequest := channels.NewSignalAwaitable()

	closeFn := func() {
		stopRequest.Signal()
		socket.Close()
		clients.Range(func(key string, client *tcpClient) bool {
			client.abort.Signal()
			return true
		})
	}

	lsnr := &Listener{
		logger:      log,
		protocol:    ProtocolTCP,
		addr:        boundAddr,
		frames:      frames,
		stopped:     stopped,
		closeFn:     closeFn,
		clientCount: clients.Size,
	}

	go runTCPAcceptLoop(log, socket, int(cfg.MaxFrame), frames, clients, &nextClientID, &taskCounter, stopRequest)

	return lsnr, nil
}

func runTCPAcceptLoop(
	log logger.Logger,
	socket *net.TCPListener,
	maxFrame int,
	frames *pipeline.Dispatcher[Frame],
	clients *xsync.MapOf[*tcpClient],
	nextClientID *int64,
	taskCounter *sync.WaitGroup,
	stopRequest channels.Awaitable,
) {
	defer taskCounter.Done()
	defer frames.Close()

	for {
		conn, err := socket.AcceptTCP()
		if err != nil {
			if stopRequest.Peek() && netutil.IsNetworkClosed(err) {
				log.Info("end accept loop on stop request")
			} else if netutil.IsNetworkTimeout(err) {
				time.Sleep(defs.ListenerAcceptRetryInterval)
				continue
			} else {
				log.Errorf("accept() error: %s", err.Error())
			}
			return
		}

		clientID := atomic.AddInt64(nextClientID, 1)
		connLogger := log.WithFields(logger.Fields{
			defs.LabelPart:     "connection",
			defs.LabelRemote:   conn.RemoteAddr().String(),
			defs.LabelClientID: clientID,
		})
		connLogger.Info("accepted connection")

		client := &tcpClient{conn: conn, abort: channels.NewSignalAwaitable(), logger: connLogger}
		key := connKey(clientID)
		clients.Store(key, client)

		taskCounter.Add(1)
		go runTCPConnection(client, key, maxFrame, frames, clients, taskCounter, stopRequest)
	}
}

func runTCPConnection(
	client *tcpClient,
	key string,
	maxFrame int,
	frames *pipeline.Dispatcher[Frame],
	clients *xsync.MapOf[*tcpClient],
	taskCounter *sync.WaitGroup,
	stopRequest channels.Awaitable,
) {
	defer taskCounter.Done()
	defer clients.Delete(key)
	defer client.conn.Close()

	go func() {
		channels.AnyAwaitables(stopRequest, client.abort).WaitForever()
		client.conn.Close()
	}()

	if sz, err := netutil.TrySetTCPReadBuffer(client.conn, tcpReadBufferMax, tcpReadBufferMin); err != nil {
		client.logger.Warnf("error changing buffer size: %s", err.Error())
	} else {
		client.logger.Debugf("set TCP buffer size: %d", sz)
	}

	reader := netutil.WrapConn(client.conn, defs.IntermediateChannelTimeout, 0)
	peerAddr := client.conn.RemoteAddr().String()
	if host, _, splitErr := net.SplitHostPort(peerAddr); splitErr == nil {
		peerAddr = host
	}

	buf := make([]byte, maxFrame)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			metrics.ListenerFramesTotal.WithLabelValues("tcp").Inc()
			data := make([]byte, n)
			copy(data, buf[:n])
			frames.Emit(Frame{Data: data, PeerAddr: peerAddr})
		}
		if err != nil {
			if netutil.IsNetworkClosed(err) {
				client.logger.Info("connection closed")
			} else {
				metrics.ListenerErrorsTotal.WithLabelValues("tcp").Inc()
				client.logger.Warnf("read() error: %s", err.Error())
			}
			return
		}
	}
}

func connKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
