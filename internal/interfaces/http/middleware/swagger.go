package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/fulfillment/internal/interfaces/http/dto"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	Enabled    bool     // Whether Swagger endpoint is enabled
	AllowedIPs []string // IP whitelist (CIDR notation supported, empty = allow all)
}

// SwaggerProtection hides the API docs when disabled (404) and restricts
// them to AllowedIPs when a whitelist is set (403).
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	// Parse CIDR networks on initialization for performance
	var allowedNets []*net.IPNet
	var allowedIPs []net.IP
	if len(cfg.AllowedIPs) > 0 {
		for _, ipStr := range cfg.AllowedIPs {
			if strings.Contains(ipStr, "/") {
				// CIDR notation
				_, network, err := net.ParseCIDR(ipStr)
				if err == nil {
					allowedNets = append(allowedNets, network)
				}
			} else {
				// Single IP
				ip := net.ParseIP(ipStr)
				if ip != nil {
					allowedIPs = append(allowedIPs, ip)
				}
			}
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}

		// Check IP whitelist if configured
		if len(cfg.AllowedIPs) > 0 {
			clientIP := getClientIP(c)
			if !isIPAllowed(clientIP, allowedIPs, allowedNets) {
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeForbidden, "Access to API documentation is restricted", GetRequestID(c)))
				return
			}
		}

		c.Next()
	}
}

// getClientIP extracts the client IP from the request
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests
func getClientIP(c *gin.Context) net.IP {
	// Try Gin's built-in ClientIP (handles trusted proxies)
	clientIP := c.ClientIP()
	if clientIP != "" {
		ip := net.ParseIP(clientIP)
		if ip != nil {
			return ip
		}
	}

	// Fallback to remote address
	remoteAddr := c.Request.RemoteAddr
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr might not have port
		host = remoteAddr
	}
	return net.ParseIP(host)
}

// isIPAllowed checks if the given IP is in the allowed list
func isIPAllowed(ip net.IP, allowedIPs []net.IP, allowedNets []*net.IPNet) bool {
	if ip == nil {
		return false
	}

	// Check exact IP matches
	for _, allowedIP := range allowedIPs {
		if allowedIP.Equal(ip) {
			return true
		}
	}

	// Check CIDR ranges
	for _, network := range allowedNets {
		if network.Contains(ip) {
			return true
		}
	}

	return false
}
