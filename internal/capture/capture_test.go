package capture

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap/zaptest"

	"github.com/journeygo/client/internal/config"
	"github.com/journeygo/client/internal/data"
	jnet "github.com/journeygo/client/internal/net"
	"github.com/journeygo/client/internal/net/packet"
)

const serverPort = 8585

type segment struct {
	fromServer bool
	seq        uint32
	syn        bool
	payload    []byte
	at         time.Duration
}

func writeCapture(t *testing.T, segs []segment) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.pcap")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	server, client := net.IP{10, 0, 0, 1}, net.IP{10, 0, 0, 2}

	for _, s := range segs {
		eth := layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0, 1, 2, 3, 4, 5},
			DstMAC:       net.HardwareAddr{0, 1, 2, 3, 4, 6},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ip := layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: layers.IPProtocolTCP}
		tcp := layers.TCP{Seq: s.seq, SYN: s.syn, ACK: !s.syn, PSH: len(s.payload) > 0, Window: 65535}
		if s.fromServer {
			ip.SrcIP, ip.DstIP = server, client
			tcp.SrcPort, tcp.DstPort = serverPort, 50000
		} else {
			ip.SrcIP, ip.DstIP = client, server
			tcp.SrcPort, tcp.DstPort = 50000, serverPort
		}
		tcp.SetNetworkLayerForChecksum(&ip)

		buf := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
		if err := gopacket.SerializeLayers(buf, opts, &eth, &ip, &tcp, gopacket.Payload(s.payload)); err != nil {
			t.Fatal(err)
		}
		b := buf.Bytes()
		ci := gopacket.CaptureInfo{Timestamp: base.Add(s.at), CaptureLength: len(b), Length: len(b)}
		if err := w.WritePacket(ci, b); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func frame(payload []byte) []byte {
	h := jnet.EncodeHeader(len(payload), [4]byte{1, 2, 3, 4}, 83)
	return append(h[:], payload...)
}

func changeMap(mapID int32) []byte {
	w := packet.NewWriterWithOpcode(packet.RecvSetField)
	w.WriteInt(1)
	w.WriteInt8(0)
	w.WriteInt8(0)
	w.WriteZero(3)
	w.WriteInt(mapID)
	w.WriteUint8(0)
	return w.Bytes()
}

func sessionCapture(t *testing.T) string {
	t.Helper()
	hs := jnet.Handshake{Version: 83, Patch: "1", SendIV: [4]byte{1, 2, 3, 4}, RecvIV: [4]byte{5, 6, 7, 8}, Locale: 8}
	first := append(hs.Bytes(), frame(changeMap(104000000))...)
	ping := frame(packet.NewWriterWithOpcode(packet.RecvPing).Bytes())

	seq := uint32(5001)
	segs := []segment{
		{fromServer: true, seq: 5000, syn: true},
		{fromServer: true, seq: seq, payload: first},
		{fromServer: false, seq: 9000, payload: []byte{0xde, 0xad}, at: 10 * time.Millisecond},
		{fromServer: true, seq: seq + uint32(len(first)), payload: ping[:3], at: 40 * time.Millisecond},
		{fromServer: true, seq: seq + uint32(len(first)) + 3, payload: ping[3:], at: 80 * time.Millisecond},
	}
	return writeCapture(t, segs)
}

func TestExtractServerStream(t *testing.T) {
	streams, err := Extract(context.Background(), sessionCapture(t), serverPort, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(streams))
	}
	s := streams[0]
	if s.Err != nil {
		t.Fatalf("stream error: %v", s.Err)
	}
	if s.Handshake == nil || s.Handshake.Version != 83 || s.Handshake.Locale != 8 {
		t.Fatalf("handshake = %+v", s.Handshake)
	}
	if len(s.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(s.Messages))
	}
	if got := packet.NewReader(s.Messages[1].Payload).ReadUShort(); got != packet.RecvPing {
		t.Errorf("second opcode = 0x%X", got)
	}
	if gap := s.Messages[1].Seen.Sub(s.Messages[0].Seen); gap != 80*time.Millisecond {
		t.Errorf("gap = %s, want 80ms", gap)
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pcap")
	if err := os.WriteFile(path, []byte("not a capture"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Extract(context.Background(), path, serverPort, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error")
	}
}

func TestReplayDrivesStage(t *testing.T) {
	log := zaptest.NewLogger(t)
	streams, err := Extract(context.Background(), sessionCapture(t), serverPort, log)
	if err != nil {
		t.Fatal(err)
	}

	maps := &data.MapDataTable{}
	maps.Add(data.MapInfo{
		MapID:     104000000,
		Footholds: []data.FootholdEntry{{ID: 1, X1: -300, Y1: 100, X2: 300, Y2: 100}},
		Portals:   []data.PortalEntry{{ID: 0, X: 0, Y: 50}},
	})
	rep := NewReplayer(config.Defaults(), maps, log).Run(context.Background(), streams[0])

	if rep.Err != nil {
		t.Fatal(rep.Err)
	}
	if rep.Messages != 2 || rep.Failed != 0 {
		t.Errorf("messages=%d failed=%d", rep.Messages, rep.Failed)
	}
	if rep.MapID != 104000000 {
		t.Errorf("map = %d", rep.MapID)
	}
	// 80ms at the default 8ms tick
	if rep.Ticks != 10 {
		t.Errorf("ticks = %d, want 10", rep.Ticks)
	}
	if rep.Span != 80*time.Millisecond {
		t.Errorf("span = %s", rep.Span)
	}
}
