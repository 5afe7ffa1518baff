package server

import (
	"log/slog"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/mdns"

	"github.com/izzyreal/pagehist/internal/version"
)

const mdnsServiceType = "_pagehist._tcp"

// startMDNSAdvertiser announces the HTTP API on the local network and returns
// a stop function. Failures are logged and leave the server running.
func startMDNSAdvertiser(serverAddr, instance string) func() {
	port, err := strconv.Atoi(listenPortFromAddr(serverAddr))
	if err != nil || port <= 0 {
		slog.Warn("mdns advertising skipped", "addr", serverAddr)
		return func() {}
	}

	instance = mdnsInstanceName(instance)
	meta := []string{
		"name=pagehist",
		"api_version=1",
		"version=" + version.Current(),
	}
	service, err := mdns.NewMDNSService(instance, mdnsServiceType, "", "", port, discoverAdvertiseIPs(), meta)
	if err != nil {
		slog.Error("mdns advertise service setup failed", "error", err)
		return func() {}
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		slog.Error("mdns advertise start failed", "error", err)
		return func() {}
	}
	slog.Info("mdns advertising enabled", "service", mdnsServiceType, "instance", instance, "port", port)

	return func() {
		_ = server.Shutdown()
	}
}

func mdnsInstanceName(instance string) string {
	if instance = strings.TrimSpace(instance); instance != "" {
		return instance
	}
	host, _ := os.Hostname()
	if host = strings.TrimSpace(host); host == "" {
		return "pagehist"
	}
	return "pagehist-" + host
}

func discoverAdvertiseIPs() []net.IP {
	ifAddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return filterAdvertiseIPs(ifAddrs)
}

func filterAdvertiseIPs(addrs []net.Addr) []net.IP {
	if len(addrs) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		if addr == nil {
			continue
		}
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet == nil || ipNet.IP == nil {
			continue
		}
		ip := ipNet.IP
		if ip.IsLoopback() || ip.IsUnspecified() {
			continue
		}
		if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			continue
		}
		normalized := ip.To16()
		if normalized == nil {
			continue
		}
		key := normalized.String()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		ai := out[i].To4() != nil
		aj := out[j].To4() != nil
		if ai != aj {
			return ai
		}
		return out[i].String() < out[j].String()
	})
	return out
}

func listenPortFromAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "8112"
	}
	if strings.HasPrefix(addr, ":") {
		return strings.TrimPrefix(addr, ":")
	}
	if strings.Count(addr, ":") == 0 {
		return addr
	}
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return p
}
