package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the canonical request
	SignatureHeader = "X-SecureSubmit-Signature"
	// TimestampHeader carries the Unix time (seconds) the host signed the request at
	TimestampHeader = "X-SecureSubmit-Timestamp"

	maxSignedBodyBytes = 1 << 20
)

// HostAuthConfig configures HostAuth
type HostAuthConfig struct {
	Secret     string
	AllowedIPs []string // IPs or CIDRs; empty accepts any source address
	MaxSkew    time.Duration
}

// HostAuth authenticates requests from the host platform: an optional source IP
// allow-list plus an HMAC signature over timestamp, method, URI and body.
type HostAuth struct {
	secret  []byte
	allowed []*net.IPNet
	maxSkew time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewHostAuth creates a host authenticator. An empty secret is rejected.
func NewHostAuth(cfg HostAuthConfig, logger *zap.Logger) (*HostAuth, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("host auth secret is required")
	}
	if cfg.MaxSkew <= 0 {
		cfg.MaxSkew = 5 * time.Minute
	}

	allowed := make([]*net.IPNet, 0, len(cfg.AllowedIPs))
	for _, entry := range cfg.AllowedIPs {
		network, err := parseAllowedIP(entry)
		if err != nil {
			return nil, err
		}
		allowed = append(allowed, network)
	}

	return &HostAuth{
		secret:  []byte(cfg.Secret),
		allowed: allowed,
		maxSkew: cfg.MaxSkew,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func parseAllowedIP(entry string) (*net.IPNet, error) {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed CIDR %q: %w", entry, err)
		}
		return network, nil
	}

	ip := net.ParseIP(entry)
	if ip == nil {
		return nil, fmt.Errorf("invalid allowed IP %q", entry)
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	bits := len(ip) * 8
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}

// Sign computes the signature the host sends for a request
func Sign(secret string, timestamp int64, method, requestURI string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d\n%s\n%s\n", timestamp, method, requestURI)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Middleware wraps an HTTP handler with host authentication
func (a *HostAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		// Proxy headers are not trusted; RemoteAddr is the source
		if !a.ipAllowed(ip) {
			a.logger.Warn("Plugin request from unauthorized IP",
				zap.String("ip", ip),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		signature := strings.ToLower(strings.TrimSpace(r.Header.Get(SignatureHeader)))
		if signature == "" {
			a.reject(w, r, ip, "missing signature")
			return
		}

		timestamp, err := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
		if err != nil {
			a.reject(w, r, ip, "invalid timestamp")
			return
		}
		if skew := a.now().Sub(time.Unix(timestamp, 0)); skew > a.maxSkew || skew < -a.maxSkew {
			a.reject(w, r, ip, "timestamp outside allowed skew")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxSignedBodyBytes+1))
		if err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if len(body) > maxSignedBodyBytes {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		expected := Sign(string(a.secret), timestamp, r.Method, r.URL.RequestURI(), body)
		if !hmac.Equal([]byte(signature), []byte(expected)) {
			a.reject(w, r, ip, "invalid signature")
			return
		}

		a.logger.Debug("Plugin request authenticated",
			zap.String("ip", ip),
			zap.String("path", r.URL.Path))

		next.ServeHTTP(w, r)
	})
}

func (a *HostAuth) ipAllowed(ip string) bool {
	if len(a.allowed) == 0 {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range a.allowed {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

func (a *HostAuth) reject(w http.ResponseWriter, r *http.Request, ip, reason string) {
	a.logger.Warn("Plugin request authentication failed",
		zap.String("ip", ip),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("reason", reason))
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
