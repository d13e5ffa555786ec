package main

import (
	"flag"
	"net"
	"strings"
	"time"
)

var (
	flagVersion = flag.Bool("V", false, "Print version and exit.")
	flagVerbose = flag.Bool("v", false, "Enable verbose logging.")

	flagBind        = flag.String("b", "::", "Bind address.")
	flagPort        = flag.Int("p", 53, "Listening port.")
	flagHTTP        = flag.String("http", "", "HTTP API listening address, such as :8080. Empty disables the API.")
	flagUDPMaxBytes = flag.Int("udp-max-bytes", 4096, "Default DNS max message size on UDP.")
	flagForceTCP    = flag.Bool("force-tcp", false, "Force DNS queries use TCP only. Only applies to resolvers declared in ip:port format.")
	flagReusePort   = flag.Bool("reuse-port", true, "Enable SO_REUSEPORT to gain some performance optimization. Need Linux>=3.9")
	flagTimeout     = flag.Duration("timeout", time.Second, "DNS request timeout")
	flagIPBanlist   = flag.String("l", "", "Path to IP banlist file. Answers containing these IPs are suppressed.")
	flagForbidden   = flag.String("forbidden", "", "Comma separated domains to forbid, in addition to banlist files.")
	flagReload      = flag.Duration("reload", 0, "Banlist reload interval, such as 10m. Zero disables reload.")
	flagHosts       = flag.Bool("hosts", false, "Answer A/AAAA queries from the local hosts file before forwarding.")

	flagBanlists  pathList
	flagResolvers resolverAddrs = []string{"udp+tcp@8.8.8.8:53", "udp+tcp@1.1.1.1:53"}
)

func init() {
	flag.Var(&flagBanlists, "banlist", "Path to a domain banlist file (one domain per line, # for comments).\n"+
		"May be given multiple times.")
	flag.Var(&flagResolvers, "s", "Comma separated list of upstream DNS servers.\n"+
		"Servers can be in format ip:port or protocol[+protocol]@ip:port where protocol is udp or tcp.\n"+
		"Protocols are dialed in order left to right. Rightmost protocol will only be dialed if the leftmost fails.\n"+
		"If port is omitted it defaults to 53.\n"+
		"Examples: udp@8.8.8.8,udp+tcp@127.0.0.1:5353,1.1.1.1")
}

type pathList []string

func (ps *pathList) String() string {
	return strings.Join(*ps, ",")
}

func (ps *pathList) Set(s string) error {
	*ps = append(*ps, s)
	return nil
}

type resolverAddrs []string

func (rs *resolverAddrs) String() string {
	sb := new(strings.Builder)

	lastIdx := len(*rs) - 1
	for i, addr := range *rs {
		if host, port, err := net.SplitHostPort(addr); err != nil {
			sb.WriteString(addr)
		} else if port == "53" {
			sb.WriteString(host)
		} else {
			sb.WriteString(addr)
		}
		if i < lastIdx {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}

func (rs *resolverAddrs) Set(s string) error {
	addrs := strings.Split(s, ",")
	*rs = addrs
	return nil
}
