package server

import (
	"net"
	"strings"
	"testing"
)

func TestListenPortFromAddr(t *testing.T) {
	if got := listenPortFromAddr(""); got != "8112" {
		t.Fatalf("expected default port 8112, got %q", got)
	}
	if got := listenPortFromAddr(":9000"); got != "9000" {
		t.Fatalf("expected :9000 to parse to 9000, got %q", got)
	}
	if got := listenPortFromAddr("127.0.0.1:7777"); got != "7777" {
		t.Fatalf("expected host:port to parse port 7777, got %q", got)
	}
	if got := listenPortFromAddr("not-a-port:"); got != "" {
		t.Fatalf("expected invalid addr parse to empty, got %q", got)
	}
}

func TestFilterAdvertiseIPs(t *testing.T) {
	ipNet := func(s string) net.Addr {
		return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(24, 32)}
	}
	got := filterAdvertiseIPs([]net.Addr{
		ipNet("127.0.0.1"),
		ipNet("169.254.10.1"),
		ipNet("fe80::1"),
		ipNet("2001:db8::5"),
		ipNet("192.168.1.20"),
		ipNet("10.0.0.4"),
		ipNet("192.168.1.20"),
		&net.TCPAddr{IP: net.ParseIP("10.0.0.9")},
		nil,
	})
	want := []string{"10.0.0.4", "192.168.1.20", "2001:db8::5"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("ip %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if filterAdvertiseIPs(nil) != nil {
		t.Fatalf("expected nil for no addrs")
	}
	if filterAdvertiseIPs([]net.Addr{ipNet("127.0.0.1")}) != nil {
		t.Fatalf("expected nil when only loopback is present")
	}
}

func TestMDNSInstanceName(t *testing.T) {
	if got := mdnsInstanceName("  ci-box "); got != "ci-box" {
		t.Fatalf("expected trimmed instance, got %q", got)
	}
	if got := mdnsInstanceName(""); !strings.HasPrefix(got, "pagehist") {
		t.Fatalf("expected pagehist prefix, got %q", got)
	}
}

func TestStartMDNSAdvertiserSkipsBadAddr(t *testing.T) {
	stop := startMDNSAdvertiser("host:notaport", "x")
	stop()
}
