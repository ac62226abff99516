package domain

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// ValidateWebhookURL validates a URL for use as a notification webhook
// endpoint. It performs SSRF protection by blocking:
// - Non-HTTP/HTTPS schemes
// - Private, loopback, and link-local IP addresses
// - Localhost and local domain names
// - Internal/restricted domain suffixes
// - Cloud metadata service endpoints
func ValidateWebhookURL(urlStr string) error {
	if urlStr == "" {
		return errors.New("URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.New("invalid URL: " + err.Error())
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return errors.New("URL must have a host")
	}

	host := parsedURL.Hostname()
	lowerHost := strings.ToLower(host)

	if err := validateWebhookHostname(lowerHost); err != nil {
		return err
	}

	if err := validateWebhookInternalDomains(lowerHost); err != nil {
		return err
	}

	ip := net.ParseIP(host)
	if ip != nil {
		if err := validateWebhookIPAddress(ip); err != nil {
			return err
		}
	}

	return nil
}

// validateWebhookHostname checks for localhost and local domain names
func validateWebhookHostname(host string) error {
	if host == "localhost" || host == "localhost.localdomain" {
		return errors.New("URL must not use localhost or local domain")
	}

	if strings.HasSuffix(host, ".localhost") {
		return errors.New("URL must not use localhost or local domain")
	}

	// .local suffix (mDNS/Bonjour)
	if strings.HasSuffix(host, ".local") {
		return errors.New("URL must not use localhost or local domain")
	}

	return nil
}

// validateWebhookInternalDomains checks for internal/restricted domain suffixes
func validateWebhookInternalDomains(host string) error {
	internalSuffixes := []string{
		".internal",      // GCP metadata, general internal
		".corp",          // Corporate networks
		".intranet",      // Intranet domains
		".cluster.local", // Kubernetes cluster domains
	}

	for _, suffix := range internalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return errors.New("URL must not use internal domain")
		}
	}

	internalDomains := []string{
		"internal",
		"corp",
		"intranet",
		"metadata",
		"metadata.google.internal",
		"metadata.azure.internal",
	}

	for _, domain := range internalDomains {
		if host == domain {
			return errors.New("URL must not use internal domain")
		}
	}

	return nil
}

// validateWebhookIPAddress checks if an IP address is private, loopback, or
// otherwise restricted
func validateWebhookIPAddress(ip net.IP) error {
	if ip.IsLoopback() {
		return errors.New("URL must not use private or restricted IP address")
	}

	if ip.IsPrivate() {
		return errors.New("URL must not use private or restricted IP address")
	}

	// Includes the cloud metadata endpoint 169.254.169.254
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return errors.New("URL must not use private or restricted IP address")
	}

	if ip.IsUnspecified() || ip.IsMulticast() {
		return errors.New("URL must not use private or restricted IP address")
	}

	// IPv6 unique local addresses (fc00::/7)
	if len(ip) == net.IPv6len {
		if ip[0] == 0xfc || ip[0] == 0xfd {
			return errors.New("URL must not use private or restricted IP address")
		}
	}

	// IPv4-mapped IPv6 addresses - validate the IPv4 part
	if ipv4 := ip.To4(); ipv4 != nil && len(ip) == net.IPv6len {
		if ipv4.IsLoopback() || ipv4.IsPrivate() || ipv4.IsLinkLocalUnicast() || ipv4.IsUnspecified() {
			return errors.New("URL must not use private or restricted IP address")
		}
	}

	if ip.Equal(net.IPv4bcast) {
		return errors.New("URL must not use private or restricted IP address")
	}

	return nil
}
