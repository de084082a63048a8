package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

const DefaultMaxResponseSize = 10 * 1024 * 1024

var (
	ErrPrivateAddress = errors.New("access to private IP ranges is not allowed")
	ErrTooLarge       = errors.New("response too large")
)

// HTTP клиент для лент и страниц статей.
// Ограничивает размер ответа и не ходит в приватные сети
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
}

func NewClient(userAgent string, maxBytes int64) *Client {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseSize
	}

	// Адрес проверяем в момент соединения: так под запрет попадают и редиректы, и DNS rebinding
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: refusePrivate,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        100,
	}

	return &Client{
		// Запасной таймаут. Основной задается контекстом вызывающего
		http:      &http.Client{Timeout: 30 * time.Second, Transport: transport},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Loopback разрешен, иначе не заработают локальные тесты
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

func refusePrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid dial address %q: %w", address, err)
	}

	ip := net.ParseIP(host)
	if ip == nil || isPrivateIP(ip) {
		return ErrPrivateAddress
	}

	return nil
}

// Get скачивает тело ответа целиком. Любой статус кроме 200 это ошибка.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL: unsupported scheme %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w (exceeds %d bytes)", ErrTooLarge, c.maxBytes)
	}

	return body, nil
}
