package naming

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// DNSLinkEndpoint resolves names through DNSLink TXT records
// (dnslink=/ipfs/<cid> under _dnslink.<name>). It serves pointers that are
// mirrored into DNS, typically the master catalog pointers, and slots into a
// MultiResolver's endpoint list like any other endpoint.
type DNSLinkEndpoint struct {
	server  string
	timeout time.Duration
	log     *slog.Logger
}

// NewDNSLinkEndpoint creates an endpoint querying the DNS server at
// addr (host:port). A zero timeout selects 5 seconds.
func NewDNSLinkEndpoint(server string, timeout time.Duration, log *slog.Logger) *DNSLinkEndpoint {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &DNSLinkEndpoint{
		server:  server,
		timeout: timeout,
		log:     log,
	}
}

// ResolveName looks up the dnslink TXT record for the name.
func (e *DNSLinkEndpoint) ResolveName(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn("_dnslink."+name.String()), dns.TypeTXT)

	client := &dns.Client{Timeout: e.timeout}
	resp, rtt, err := client.ExchangeContext(ctx, msg, e.server)
	if err != nil {
		return "", fmt.Errorf("dns exchange: %w", err)
	}

	if resp.Rcode == dns.RcodeNameError {
		// NXDOMAIN is a well-formed negative answer.
		return "", interfaces.ErrPointerNotFound
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("dns rcode %d", resp.Rcode)
	}

	for _, answer := range resp.Answer {
		txt, ok := answer.(*dns.TXT)
		if !ok {
			continue
		}

		record := strings.Join(txt.Txt, "")
		if !strings.HasPrefix(record, "dnslink=") {
			continue
		}

		addr, err := addressFromPath(strings.TrimPrefix(record, "dnslink="))
		if err != nil {
			continue
		}

		e.log.Debug("Resolved pointer via DNSLink",
			slog.String("name", name.String()),
			slog.String("address", addr.String()),
			slog.Duration("rtt", rtt))

		return addr, nil
	}

	return "", interfaces.ErrPointerNotFound
}

// Name returns an identifier for logging.
func (e *DNSLinkEndpoint) Name() string {
	return "dnslink-" + e.server
}
