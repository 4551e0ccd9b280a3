// Package rtc hands clients the ICE servers for their peer-to-peer media
// session. The hub never carries media itself.
package rtc

import (
	"fmt"

	"github.com/dkeye/Interview/internal/config"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{
		{
			URLs: []string{"stun:stun.l.google.com:19302"},
		},
	}
}

// ICEServers converts and validates configured servers. TURN entries must
// carry credentials.
func ICEServers(cfg []config.ICEServer) ([]webrtc.ICEServer, error) {
	if len(cfg) == 0 {
		return DefaultICEServers(), nil
	}
	out := make([]webrtc.ICEServer, 0, len(cfg))
	for i, s := range cfg {
		if len(s.URLs) == 0 {
			return nil, fmt.Errorf("ice_servers[%d]: no urls", i)
		}
		for _, raw := range s.URLs {
			uri, err := stun.ParseURI(raw)
			if err != nil {
				return nil, fmt.Errorf("ice_servers[%d]: %q: %w", i, raw, err)
			}
			if (uri.Scheme == stun.SchemeTypeTURN || uri.Scheme == stun.SchemeTypeTURNS) && (s.Username == "" || s.Credential == "") {
				return nil, fmt.Errorf("ice_servers[%d]: %q needs username and credential", i, raw)
			}
		}
		server := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			server.Username = s.Username
			server.Credential = s.Credential
			server.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, server)
	}
	return out, nil
}
