package firebase

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"cookiegallery/internal/domain/identity"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

	defaultCacheTTL = time.Hour
	// failed fetches are not retried sooner than this
	refreshBackoff = 10 * time.Second
)

// CertSource serves the provider's token signing keys, cached for the response's max-age.
type CertSource struct {
	url  string
	http *http.Client
	now  func() time.Time

	refreshes singleflight.Group

	mu       sync.RWMutex
	keys     map[string]*rsa.PublicKey
	expires  time.Time
	retryAt  time.Time
	fetchErr error
}

func NewCertSource(url string, httpClient *http.Client) *CertSource {
	if url == "" {
		url = DefaultCertsURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &CertSource{url: url, http: httpClient, now: time.Now}
}

// PublicKey returns the key for kid. Keys are only re-fetched once the cached set expires,
// so an unknown kid against a fresh cache is rejected without an outbound call.
func (s *CertSource) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	key, ok, fresh := s.lookup(kid)
	if ok && fresh {
		return key, nil
	}
	if fresh {
		return nil, unknownKey(kid)
	}

	// concurrent callers share one fetch
	_, err, _ := s.refreshes.Do("certs", func() (any, error) {
		return nil, s.refreshIfStale(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}

	if key, ok, _ := s.lookup(kid); ok {
		return key, nil
	}
	return nil, unknownKey(kid)
}

func (s *CertSource) lookup(kid string) (key *rsa.PublicKey, ok, fresh bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok = s.keys[kid]
	return key, ok, s.now().Before(s.expires)
}

func (s *CertSource) refreshIfStale(ctx context.Context) error {
	s.mu.RLock()
	now := s.now()
	fresh := now.Before(s.expires)
	backoff, lastErr := now.Before(s.retryAt), s.fetchErr
	s.mu.RUnlock()
	if fresh {
		return nil
	}
	if backoff && lastErr != nil {
		return lastErr
	}

	err := s.refresh(ctx)
	if err != nil {
		s.mu.Lock()
		s.retryAt = s.now().Add(refreshBackoff)
		s.fetchErr = err
		s.mu.Unlock()
	}
	return err
}

func unknownKey(kid string) error {
	return fmt.Errorf("%w: unknown key id %q", identity.ErrUnauthenticated, kid)
}

func (s *CertSource) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", identity.ErrVerifierUnavailable, err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch certs: %w", identity.ErrVerifierUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read certs: %w", identity.ErrVerifierUnavailable, err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: certs endpoint %s", identity.ErrVerifierUnavailable, resp.Status)
	}

	var pems map[string]string
	if err := json.Unmarshal(raw, &pems); err != nil {
		return fmt.Errorf("%w: decode certs: %w", identity.ErrVerifierUnavailable, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(pems))
	for kid, pem := range pems {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return fmt.Errorf("%w: parse cert %s: %w", identity.ErrVerifierUnavailable, kid, err)
		}
		keys[kid] = key
	}

	s.mu.Lock()
	s.keys = keys
	s.expires = s.now().Add(maxAge(resp.Header.Get("Cache-Control")))
	s.fetchErr = nil
	s.mu.Unlock()
	return nil
}

func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(directive), "=")
		if !found || !strings.EqualFold(name, "max-age") {
			continue
		}
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultCacheTTL
}
