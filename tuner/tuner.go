// Package tuner exposes the sensing engine's live state buffer to an
// external host tool over a serial link, using a small addressed-buffer
// protocol: the host asks for a window (offset, count) and the device
// answers with that slice of the buffer, read-only. Exactly one reader at a
// time is supported.
//
// A request frame is 4 bytes: sync 0xA5, offset (big-endian u16), count.
// A reply frame is 0x5A, count, then count bytes of buffer.
package tuner

import (
	"context"
	"sync/atomic"

	"proxcode-go/sense"
	"proxcode-go/syspm"
	"proxcode-go/types"
	"proxcode-go/x/mathx"
)

// Wire framing, shared with host-side tools.
const (
	ReqSync   = 0xA5
	ReplySync = 0x5A
	ReqLen    = 4
)

// Port is the serial link to the host tool (the uartx.UART surface the
// service needs).
type Port interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

type request struct {
	off uint16
	n   uint8
}

// Service decodes host requests on a reader goroutine and answers them from
// the scheduler cycle. Service itself never blocks; requests that arrive
// faster than the cycle drains them are dropped, not queued unboundedly.
type Service struct {
	port Port
	eng  sense.Engine
	wake *syspm.WakeSource

	reqQ    chan request
	scratch [2 + 255]byte
	drops   uint32
}

func New(port Port, eng sense.Engine, wake *syspm.WakeSource) *Service {
	return &Service{
		port: port,
		eng:  eng,
		wake: wake,
		reqQ: make(chan request, 8),
	}
}

// Start launches the bounded reader goroutine. Received traffic latches the
// communication wake source so a sleeping core services the host promptly.
func (s *Service) Start(ctx context.Context) {
	go func() {
		buf := make([]byte, 16)
		var frame [ReqLen]byte
		have := 0
		for {
			n, _ := s.port.RecvSomeContext(ctx, buf)
			if n <= 0 {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if s.wake != nil {
				s.wake.Notify()
			}
			for i := 0; i < n; i++ {
				b := buf[i]
				if have == 0 && b != ReqSync {
					continue // resync
				}
				frame[have] = b
				have++
				if have < ReqLen {
					continue
				}
				have = 0
				req := request{
					off: uint16(frame[1])<<8 | uint16(frame[2]),
					n:   frame[3],
				}
				select {
				case s.reqQ <- req:
				default:
					atomic.AddUint32(&s.drops, 1)
				}
			}
		}
	}()
}

// Service answers all pending requests and returns immediately. Called once
// per scheduler cycle.
func (s *Service) Service() {
	for {
		select {
		case req := <-s.reqQ:
			s.reply(req)
		default:
			return
		}
	}
}

func (s *Service) reply(req request) {
	buf := s.eng.StateBuffer()
	off := mathx.Min(int(req.off), len(buf))
	n := mathx.Min(int(req.n), len(buf)-off)

	s.scratch[0] = ReplySync
	s.scratch[1] = byte(n)
	copy(s.scratch[2:], buf[off:off+n])
	_, _ = s.port.Write(s.scratch[:2+n])
}

// Drops reports requests discarded because the cycle was behind.
func (s *Service) Drops() uint32 { return atomic.LoadUint32(&s.drops) }

// TransitionHandler is the tuner's deep-sleep dependent. Its transactions
// are idempotent and abortable, so every phase reports success and the link
// never vetoes a sleep.
func (s *Service) TransitionHandler(types.TransitionPhase) error { return nil }
