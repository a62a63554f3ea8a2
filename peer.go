package sv2wire

import "sync"

// Peer carries the per-connection protocol state between handler calls. The
// I/O driver owns the socket; Peer owns the encryptor, the negotiated setup
// state and the queue of frames waiting to be written out.
type Peer struct {
	Encryptor *ConnectionEncryptor

	lock      sync.Mutex
	setupConn *SetupConnection
	pending   [][]byte
}

// NewPeer returns a peer with an empty outbound queue.
func NewPeer(enc *ConnectionEncryptor) *Peer {
	return &Peer{Encryptor: enc}
}

// EnqueueFrame appends an encoded frame to the outbound queue. Order is
// preserved.
func (p *Peer) EnqueueFrame(b []byte) {
	p.lock.Lock()
	p.pending = append(p.pending, b)
	p.lock.Unlock()
}

// DrainPending atomically takes the queued frames, leaving the queue empty.
// Frames come out in the order they were enqueued.
func (p *Peer) DrainPending() [][]byte {
	p.lock.Lock()
	out := p.pending
	p.pending = nil
	p.lock.Unlock()
	return out
}

// PendingCount reports the number of queued outbound frames.
func (p *Peer) PendingCount() int {
	p.lock.Lock()
	n := len(p.pending)
	p.lock.Unlock()
	return n
}

// SetupConn returns the accepted setup message, or nil before setup.
func (p *Peer) SetupConn() *SetupConnection {
	p.lock.Lock()
	sc := p.setupConn
	p.lock.Unlock()
	return sc
}

func (p *Peer) setSetupConn(sc *SetupConnection) {
	p.lock.Lock()
	p.setupConn = sc
	p.lock.Unlock()
}
