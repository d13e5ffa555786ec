package gobanlist

import (
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cherkasov/gobanlist/hosts"
)

// Serve serves one DNS request.
func (s *Server) Serve(w dns.ResponseWriter, req *dns.Msg) {
	start := time.Now()
	if len(req.Question) == 0 {
		w.WriteMsg(new(dns.Msg).SetRcode(req, dns.RcodeFormatError))
		return
	}
	q := req.Question[0]
	logger := logrus.WithField("question", questionString(&q))

	// DNS names are case-insensitive and carry a trailing root dot; strip
	// both here so the checker compares canonical bytes.
	host := strings.ToLower(strings.TrimSuffix(q.Name, "."))

	if s.holder.Get().IsForbidden(NewDomain(host)) {
		logger.Debug("Domain is forbidden. Reply NXDOMAIN.")
		w.WriteMsg(blockedReply(req))
		return
	}

	if s.UseHosts {
		if reply := s.replyFromHosts(req, host); reply != nil {
			logger.Debug("Answered from hosts file.")
			w.WriteMsg(reply)
			return
		}
	}

	reply, err := s.forward(req)
	if err != nil {
		logger.WithError(err).Error("Fail to resolve with any upstream.")
		w.WriteMsg(new(dns.Msg).SetRcode(req, dns.RcodeServerFailure))
		return
	}

	if s.answerBanned(reply, logger) {
		logger.Debug("Answer hits IP banlist. Reply NXDOMAIN.")
		w.WriteMsg(blockedReply(req))
		return
	}

	// https://github.com/miekg/dns/issues/216
	reply.Compress = true
	w.WriteMsg(reply)
	logger.Debug("SERVING RTT: ", time.Since(start))
}

// blockedReply builds the NXDOMAIN answer used for forbidden domains and
// banned IPs.
func blockedReply(req *dns.Msg) *dns.Msg {
	reply := new(dns.Msg)
	reply.SetRcode(req, dns.RcodeNameError)
	return reply
}

// forward tries the upstream resolvers in order and returns the first reply.
func (s *Server) forward(req *dns.Msg) (*dns.Msg, error) {
	var errChain error
	for idx, resolver := range s.Resolvers {
		reply, rtt, err := s.Exchange(req, resolver)
		if err != nil {
			errChain = errors.Wrapf(err, "%d", idx)
			continue
		}
		logrus.WithField("server", resolver.GetAddr()).Debug("Query RTT: ", rtt)
		return reply, nil
	}
	if errChain == nil {
		errChain = errors.New("no upstream resolvers")
	}
	return nil, errChain
}

// Exchange sends the request to one upstream, dialing its protocols in order.
// A truncated UDP reply falls through to TCP when the resolver allows it.
// DNS Proxy Implementation Guidelines: https://tools.ietf.org/html/rfc5625
func (s *Server) Exchange(req *dns.Msg, r *Resolver) (reply *dns.Msg, rtt time.Duration, err error) {
	logger := logrus.WithFields(logrus.Fields{
		"question": questionString(&req.Question[0]),
		"server":   r.GetAddr(),
	})
	req.RecursionDesired = true

	for _, proto := range r.GetProtocols() {
		switch proto {
		case "udp":
			setUDPSize(req, s.UDPMaxSize)
			reply, rtt, err = s.UDPCli.Exchange(req, r.GetAddr())
			if err != nil {
				logger.WithError(err).Error("Fail to send UDP query.")
				continue
			}
			if reply != nil && reply.Truncated {
				logger.Error("Truncated msg received. Consider enlarge your UDP max size.")
				continue
			}
			return
		case "tcp":
			rtt0 := rtt
			reply, rtt, err = s.TCPCli.Exchange(req, r.GetAddr())
			rtt += rtt0
			if err != nil {
				logger.WithError(err).Error("Fail to send TCP query.")
				continue
			}
			return
		}
	}
	if err == nil && reply == nil {
		err = errors.Errorf("no reply from [%s]", r)
	}
	return
}

// answerBanned reports whether any A/AAAA answer falls inside the IP banlist.
func (s *Server) answerBanned(reply *dns.Msg, logger *logrus.Entry) bool {
	if s.IPBanlist == nil {
		return false
	}
	for _, rr := range reply.Answer {
		switch answer := rr.(type) {
		case *dns.A:
			contain, err := s.IPBanlist.Contains(answer.A)
			if err != nil {
				logger.WithError(err).Error("CIDR error.")
			}
			if contain {
				return true
			}
		case *dns.AAAA:
			contain, err := s.IPBanlist.Contains(answer.AAAA)
			if err != nil {
				logger.WithError(err).Error("CIDR error.")
			}
			if contain {
				return true
			}
		}
	}
	return false
}

// replyFromHosts answers A/AAAA questions from the local hosts file, or
// returns nil when there is no usable entry.
func (s *Server) replyFromHosts(req *dns.Msg, host string) *dns.Msg {
	q := req.Question[0]
	if q.Qtype != dns.TypeA && q.Qtype != dns.TypeAAAA {
		return nil
	}
	ip := hosts.Lookup(host)
	if ip == nil {
		return nil
	}

	hdr := dns.RR_Header{Name: q.Name, Class: dns.ClassINET, Ttl: 3600}
	reply := new(dns.Msg)
	reply.SetReply(req)
	if ip4 := ip.To4(); ip4 != nil {
		if q.Qtype != dns.TypeA {
			return nil
		}
		hdr.Rrtype = dns.TypeA
		reply.Answer = append(reply.Answer, &dns.A{Hdr: hdr, A: ip4})
	} else {
		if q.Qtype != dns.TypeAAAA {
			return nil
		}
		hdr.Rrtype = dns.TypeAAAA
		reply.Answer = append(reply.Answer, &dns.AAAA{Hdr: hdr, AAAA: ip})
	}
	return reply
}

func setUDPSize(req *dns.Msg, size int) {
	if size > dns.MinMsgSize {
		// https://tools.ietf.org/html/rfc6891#section-6.2.5
		if e := req.IsEdns0(); e != nil {
			if e.UDPSize() < uint16(size) {
				e.SetUDPSize(uint16(size))
			}
		} else {
			req.SetEdns0(uint16(size), false)
		}
	}
}

func questionString(q *dns.Question) string {
	return q.Name + " " + dns.TypeToString[q.Qtype]
}
