// Package rtc assembles the ICE configuration advertised to joining peers.
// The coordinator only relays signaling; peers dial each other directly using
// these servers.
package rtc

import "github.com/pion/webrtc/v4"

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{
		{URLs: []string{"stun:stun.l.google.com:19302"}},
	}
}

// ICEServersFrom maps configured STUN/TURN URLs into the wire shape clients
// feed straight into their RTCPeerConnection.
func ICEServersFrom(urls []string) []webrtc.ICEServer {
	if len(urls) == 0 {
		return DefaultICEServers()
	}
	out := make([]webrtc.ICEServer, 0, len(urls))
	for _, u := range urls {
		out = append(out, webrtc.ICEServer{URLs: []string{u}})
	}
	return out
}
