// Package hosts answers lookups from the local hosts file, so overrides the
// operator already maintains there keep working behind the forwarder.
package hosts

import (
	"net"
	"sync"

	"github.com/goodhosts/hostsfile"
	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	h      hostsfile.Hosts
	loaded bool
)

func load() {
	var err error
	if h, err = hostsfile.NewHosts(); err != nil {
		logrus.WithError(err).Warnln("Fail to parse local hosts file.")
		return
	}
	loaded = true
}

// Lookup returns the first IP the hosts file maps host to, or nil.
// The file is parsed once, on first use.
func Lookup(host string) net.IP {
	once.Do(load)
	if !loaded {
		return nil
	}
	for i := range h.Lines {
		line := h.Lines[i]
		if line.IsComment() || line.Raw == "" {
			continue
		}
		for _, name := range line.Hosts {
			if name == host {
				return net.ParseIP(line.IP)
			}
		}
	}
	return nil
}
