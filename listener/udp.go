package listener

import (
	"net"
	"sync"

	"github.com/loglane/syslogcore/metrics"
	"github.com/loglane/syslogcore/netutil"
	"github.com/loglane/syslogcore/pipeline"
	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
)

func startUDP(log logger.Logger, cfg Config, frames *pipeline.Dispatcher[Frame]) (*Listener, error) {
	addr := &net.UDPAddr{Port: cfg.Port}
	if cfg.Address != "" {
		addr.IP = net.ParseIP(cfg.Address)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}

	if granted, sizeErr := netutil.TrySetUDPReadBuffer(conn, int(cfg.MaxFrame)*4); sizeErr != nil {
		log.Warnf("could not tune UDP read buffer: %s", sizeErr.Error())
	} else {
		log.Infof("set UDP read buffer to %d bytes", granted)
	}

	boundAddr := conn.LocalAddr().String()
	log = log.WithField("address", boundAddr)
	log.Info("start receiving")

	var taskCounter sync.WaitGroup
	taskCounter.Add(1)
	stopped := channels.NewWaitGroupAwaitable(&taskCounter)

	lsnr := &Listener{
		logger:   log,
		protocol: ProtocolUDP,
		addr:     boundAddr,
		frames:   frames,
		stopped:  stopped,
		closeFn:  func() { conn.Close() },
	}

	go runUDPRecvLoop(log, conn, int(cfg.MaxFrame), frames, &taskCounter)

	return lsnr, nil
}

func runUDPRecvLoop(log logger.Logger, conn *net.UDPConn, maxFrame int, frames *pipeline.Dispatcher[Frame], taskCounter *sync.WaitGroup) {
	defer taskCounter.Done()
	defer frames.Close()

	buf := make([]byte, maxFrame)
	for {
		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netutil.IsNetworkClosed(err) {
				log.Info("end receive loop on socket close")
			} else {
				metrics.ListenerErrorsTotal.WithLabelValues("udp").Inc()
				log.Warnf("recvfrom() error: %s", err.Error())
			}
			return
		}
		metrics.ListenerFramesTotal.WithLabelValues("udp").Inc()
		data := make([]byte, n)
		copy(data, buf[:n])
		frames.Emit(Frame{Data: data, PeerAddr: peerIPString(peer)})
	}
}

func peerIPString(addr *net.UDPAddr) string {
	if addr == nil {
		return ""
	}
	return addr.IP.String()
}
