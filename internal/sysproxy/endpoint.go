package sysproxy

import (
	"fmt"
	"net"
	"strings"
)

// splitEndpoint extracts host and port from a proxy server string.
// A leading scheme ("http://", "socks5://") is tolerated since profile
// entries commonly carry one, while networksetup and gsettings want the
// host and port separately.
func splitEndpoint(server string) (host, port string, err error) {
	s := server
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	s = strings.TrimSuffix(s, "/")

	host, port, err = net.SplitHostPort(s)
	if err != nil {
		return "", "", fmt.Errorf("invalid proxy endpoint %q: %w", server, err)
	}
	if host == "" {
		return "", "", fmt.Errorf("invalid proxy endpoint %q: empty host", server)
	}
	return host, port, nil
}
