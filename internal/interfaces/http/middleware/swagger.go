package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/interfaces/http/dto"
)

// SwaggerProtection guards the API docs. guards run, in order, when
// cfg.RequireAuth is set; typically Authenticate followed by the desk role
// check.
func SwaggerProtection(cfg config.SwaggerConfig, guards ...gin.HandlerFunc) gin.HandlerFunc {
	allowedIPs, allowedNets := parseAllowList(cfg.AllowedIPs)
	restricted := len(cfg.AllowedIPs) > 0

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abort(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}
		if restricted && !isIPAllowed(net.ParseIP(c.ClientIP()), allowedIPs, allowedNets) {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}
		if cfg.RequireAuth {
			for _, guard := range guards {
				guard(c)
				if c.IsAborted() {
					return
				}
			}
		}
		c.Next()
	}
}

// parseAllowList splits entries into single IPs and CIDR networks, skipping
// anything unparsable
func parseAllowList(entries []string) ([]net.IP, []*net.IPNet) {
	var (
		ips  []net.IP
		nets []*net.IPNet
	)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				nets = append(nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips, nets
}

func isIPAllowed(ip net.IP, allowedIPs []net.IP, allowedNets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range allowedIPs {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range allowedNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
