package gobanlist

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/yl2chen/cidranger"
)

var (
	ErrEmptyPath = errors.New("empty path")
)

// ServerOption provides GoBanlist server options. Please use WithXXX functions to generate Options.
type ServerOption func(*serverOptions) error

type serverOptions struct {
	Listen         string           // Listening address, such as `[::]:53`, `0.0.0.0:53`
	HTTPListen     string           // Optional HTTP API address. Empty disables the API.
	BanlistPaths   []string         // Domain banlist files, re-read on reload
	Static         []Domain         // Forbidden domains given directly, kept across reloads
	IPBanlist      cidranger.Ranger // Answers containing these IPs are suppressed
	Resolvers      []*Resolver      // Upstream DNS servers, tried in order
	Timeout        time.Duration    // Timeout for one upstream exchange
	UDPMaxSize     int              // Max message size for UDP queries
	ReusePort      bool             // Enable SO_REUSEPORT
	ReloadInterval time.Duration    // How often to rebuild the checker from banlist files. Zero disables reload.
	UseHosts       bool             // Answer from the local hosts file before forwarding
}

func newServerOptions() *serverOptions {
	return &serverOptions{
		Listen:     "[::]:53",
		Timeout:    time.Second,
		UDPMaxSize: 4096,
		IPBanlist:  cidranger.NewPCTrieRanger(),
	}
}

// buildChecker assembles the active Checker from the static entries and the
// configured banlist files. Called once at startup and again on every reload.
func (o *serverOptions) buildChecker() (*Checker, error) {
	c := NewChecker(o.Static...)
	for _, path := range o.BanlistPaths {
		if err := addBanlistFile(c, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func addBanlistFile(c *Checker, path string) error {
	domains, err := LoadBanlist(path)
	if err != nil {
		return err
	}
	for _, d := range domains {
		c.Add(d)
	}
	return nil
}

// LoadBanlist reads one domain per line. Blank lines and lines starting with
// '#' are skipped. Entries are lowercased and stripped of a trailing root dot
// here, at the file boundary; the Checker itself compares byte for byte.
func LoadBanlist(path string) ([]Domain, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fail to open domain banlist: %w", err)
	}
	defer file.Close()

	var domains []Domain
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, NewDomain(strings.ToLower(strings.TrimSuffix(line, "."))))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fail to scan domain banlist: %v", err.Error())
	}
	return domains, nil
}

func WithListenAddr(addr string) ServerOption {
	return func(o *serverOptions) error {
		o.Listen = addr
		return nil
	}
}

func WithHTTPAddr(addr string) ServerOption {
	return func(o *serverOptions) error {
		o.HTTPListen = addr
		return nil
	}
}

// WithBanlist registers a domain banlist file. The file must exist at option
// time; its contents are re-read on every reload.
func WithBanlist(path string) ServerOption {
	return func(o *serverOptions) error {
		if path == "" {
			return fmt.Errorf("%w for domain banlist", ErrEmptyPath)
		}
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("fail to open domain banlist: %w", err)
		}
		file.Close()
		o.BanlistPaths = append(o.BanlistPaths, path)
		return nil
	}
}

// WithForbiddenDomains forbids the given domains directly, without a file.
func WithForbiddenDomains(names ...string) ServerOption {
	return func(o *serverOptions) error {
		for _, name := range names {
			o.Static = append(o.Static, NewDomain(strings.ToLower(strings.TrimSuffix(name, "."))))
		}
		return nil
	}
}

// WithIPBanlist loads a file of IPs or CIDRs. Upstream answers pointing into
// any of them are suppressed.
func WithIPBanlist(path string) ServerOption {
	return func(o *serverOptions) error {
		if path == "" {
			return fmt.Errorf("%w for IP banlist", ErrEmptyPath)
		}
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("fail to open IP banlist: %w", err)
		}
		defer file.Close()

		if o.IPBanlist == nil {
			o.IPBanlist = cidranger.NewPCTrieRanger()
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			_, network, err := net.ParseCIDR(scanner.Text())
			if err != nil {
				ip := net.ParseIP(scanner.Text())
				if ip == nil {
					return fmt.Errorf("parse %s as CIDR failed: %v", scanner.Text(), err.Error())
				}
				l := 8 * len(ip)
				network = &net.IPNet{IP: ip, Mask: net.CIDRMask(l, l)}
			}
			err = o.IPBanlist.Insert(cidranger.NewBasicRangerEntry(*network))
			if err != nil {
				return fmt.Errorf("insert %s as CIDR failed: %v", scanner.Text(), err.Error())
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("fail to scan IP banlist: %v", err.Error())
		}
		return nil
	}
}

func WithResolvers(tcpOnly bool, resolvers ...string) ServerOption {
	return func(o *serverOptions) error {
		for _, schema := range resolvers {
			newResolver, err := ParseResolver(schema, tcpOnly)
			if err != nil {
				return err
			}
			o.Resolvers = uniqueAppendResolver(o.Resolvers, newResolver)
		}
		return nil
	}
}

func WithTimeout(t time.Duration) ServerOption {
	return func(o *serverOptions) error {
		o.Timeout = t
		return nil
	}
}

func WithUDPMaxBytes(max int) ServerOption {
	return func(o *serverOptions) error {
		o.UDPMaxSize = max
		return nil
	}
}

func WithReusePort(b bool) ServerOption {
	return func(o *serverOptions) error {
		o.ReusePort = b
		return nil
	}
}

func WithReloadInterval(t time.Duration) ServerOption {
	return func(o *serverOptions) error {
		o.ReloadInterval = t
		return nil
	}
}

func WithHostsFile(b bool) ServerOption {
	return func(o *serverOptions) error {
		o.UseHosts = b
		return nil
	}
}
