package gobanlist

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Resolver is one upstream DNS server together with the transport protocols
// to try, in order. The textual form is  protocol[+protocol]@host:port  with
// plain host:port accepted for backwards compatibility.
type Resolver struct {
	addr  string
	proto []string
}

func (r *Resolver) GetAddr() string {
	return r.addr
}

func (r *Resolver) GetProtocols() []string {
	return r.proto
}

func (r *Resolver) String() string {
	return strings.Join(r.proto, "+") + "@" + r.addr
}

// ParseResolver parses a resolver in schema format. A missing port defaults
// to 53. When no protocols are given they default to udp+tcp, or tcp alone
// if tcpOnly is set.
func ParseResolver(input string, tcpOnly bool) (*Resolver, error) {
	var (
		addr  string
		proto []string
	)

	fields := strings.Split(input, "@")
	switch len(fields) {
	case 1:
		addr = fields[0]
		if tcpOnly {
			proto = []string{"tcp"}
		} else {
			proto = []string{"udp", "tcp"}
		}
	case 2:
		addr = fields[1]
		for _, p := range strings.Split(strings.ToLower(fields[0]), "+") {
			if err := checkProtocol(p); err != nil {
				return nil, errors.Wrapf(err, "error in resolver [%s]", input)
			}
			proto = uniqueAppendString(proto, p)
		}
	default:
		return nil, errors.Errorf("invalid resolver [%s]", input)
	}

	if addr == "" {
		return nil, errors.Errorf("empty address in resolver [%s]", input)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}

	return &Resolver{addr: addr, proto: proto}, nil
}

// checkProtocol checks if a valid protocol is specified.
func checkProtocol(p string) error {
	if p == "udp" || p == "tcp" {
		return nil
	}
	return errors.Errorf("unknown protocol [%s]", p)
}

func uniqueAppendString(to []string, item string) []string {
	for _, e := range to {
		if item == e {
			return to
		}
	}
	return append(to, item)
}

func uniqueAppendResolver(to []*Resolver, item *Resolver) []*Resolver {
	for _, e := range to {
		if item.GetAddr() == e.GetAddr() {
			return to
		}
	}
	return append(to, item)
}
