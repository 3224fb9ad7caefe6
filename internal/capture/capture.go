// Package capture recovers server-to-client message streams from packet
// captures and replays them through the decoder and simulation offline.
package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/google/gopacket/tcpassembly"
	"go.uber.org/zap"

	jnet "github.com/journeygo/client/internal/net"
)

// Message is one decrypted server message and when its last byte arrived.
type Message struct {
	Payload []byte
	Seen    time.Time
}

// Stream is the server side of one TCP connection.
type Stream struct {
	Key       string
	Handshake *jnet.Handshake
	Messages  []Message
	// Err is set when the byte stream stopped making sense; Messages holds
	// everything framed before that point.
	Err error
	// Gaps counts reassembly holes. Framing after a hole is abandoned.
	Gaps int
}

// Extract reads a pcap or pcapng file and returns every stream whose source
// port is serverPort, ordered by key.
func Extract(ctx context.Context, path string, serverPort uint16, log *zap.Logger) ([]*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var source *gopacket.PacketSource
	if ng, err := pcapgo.NewNgReader(f, pcapgo.NgReaderOptions{}); err == nil {
		source = gopacket.NewPacketSource(ng, ng.LinkType())
	} else {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		r, err := pcapgo.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open capture %s: %w", path, err)
		}
		source = gopacket.NewPacketSource(r, r.LinkType())
	}

	factory := &streamFactory{port: layers.TCPPort(serverPort), streams: make(map[string]*serverStream)}
	assembler := tcpassembly.NewAssembler(tcpassembly.NewStreamPool(factory))

	packets := 0
	for {
		select {
		case <-ctx.Done():
			assembler.FlushAll()
			return nil, ctx.Err()
		default:
		}
		pkt, err := source.NextPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read packet %d: %w", packets, err)
		}
		packets++

		nl := pkt.NetworkLayer()
		if nl == nil {
			continue
		}
		tcp, ok := pkt.TransportLayer().(*layers.TCP)
		if !ok {
			continue
		}
		assembler.AssembleWithTimestamp(nl.NetworkFlow(), tcp, pkt.Metadata().Timestamp)
	}
	assembler.FlushAll()

	out := make([]*Stream, 0, len(factory.streams))
	for _, s := range factory.streams {
		out = append(out, &s.Stream)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	log.Debug("capture read",
		zap.String("file", path),
		zap.Int("packets", packets),
		zap.Int("streams", len(out)))
	return out, nil
}

type streamFactory struct {
	port    layers.TCPPort
	streams map[string]*serverStream
}

func (f *streamFactory) New(netFlow, tcpFlow gopacket.Flow) tcpassembly.Stream {
	src, _ := tcpFlow.Endpoints()
	if layers.TCPPort(binary.BigEndian.Uint16(src.Raw())) != f.port {
		return discard{}
	}
	key := netFlow.String() + " " + tcpFlow.String()
	s := &serverStream{Stream: Stream{Key: key}}
	f.streams[key] = s
	return s
}

type discard struct{}

func (discard) Reassembled([]tcpassembly.Reassembly) {}
func (discard) ReassemblyComplete()                  {}

type serverStream struct {
	Stream
	buf  bytes.Buffer
	recv jnet.Cipher
	dead bool
}

func (s *serverStream) Reassembled(rs []tcpassembly.Reassembly) {
	for _, r := range rs {
		if s.dead {
			return
		}
		if r.Skip < 0 {
			s.fail(fmt.Errorf("stream joined mid-connection"))
			return
		}
		if r.Skip > 0 {
			s.Gaps++
			s.fail(fmt.Errorf("reassembly gap of %d bytes", r.Skip))
			return
		}
		s.buf.Write(r.Bytes)
		s.drain(r.Seen)
	}
}

func (s *serverStream) ReassemblyComplete() {
	if !s.dead && s.buf.Len() > 0 {
		s.fail(fmt.Errorf("%d trailing bytes", s.buf.Len()))
	}
}

func (s *serverStream) fail(err error) {
	if s.Err == nil {
		s.Err = err
	}
	s.dead = true
	s.buf.Reset()
}

// drain frames as many complete messages as the buffer holds.
func (s *serverStream) drain(seen time.Time) {
	for {
		b := s.buf.Bytes()
		if s.Handshake == nil {
			if len(b) < 2 {
				return
			}
			n := int(binary.LittleEndian.Uint16(b))
			if len(b) < 2+n {
				return
			}
			hs, err := jnet.ParseHandshake(b[2 : 2+n])
			if err != nil {
				s.fail(err)
				return
			}
			s.Handshake = &hs
			s.recv = jnet.NewPlainCipher(hs.RecvIV)
			s.buf.Next(2 + n)
			continue
		}

		if len(b) < jnet.HeaderSize {
			return
		}
		var h [jnet.HeaderSize]byte
		copy(h[:], b)
		n := jnet.DecodeLength(h)
		if n <= 0 {
			s.fail(fmt.Errorf("invalid frame length %d after %d messages", n, len(s.Messages)))
			return
		}
		if len(b) < jnet.HeaderSize+n {
			return
		}
		payload := append([]byte(nil), b[jnet.HeaderSize:jnet.HeaderSize+n]...)
		s.recv.Transform(payload)
		s.Messages = append(s.Messages, Message{Payload: payload, Seen: seen})
		s.buf.Next(jnet.HeaderSize + n)
	}
}
