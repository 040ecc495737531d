package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const (
	msgRateLimited = "слишком много запросов, попробуйте позже"

	defaultIdleTimeout = 10 * time.Minute
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RateLimiterConfig параметры ограничителя
type RateLimiterConfig struct {
	RequestsPerMinute int
	Burst             int
	// TrustedProxies адреса или подсети прокси, которым доверяем X-Forwarded-For и X-Real-IP.
	// Пустой список - заголовки игнорируются, ключом служит адрес соединения
	TrustedProxies []string
	// IdleTimeout через сколько неактивный адрес забывается
	IdleTimeout time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP (token bucket на адрес)
type RateLimiter struct {
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	trusted     []netip.Prefix
	logger      Logger
	now         func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRateLimiter создает ограничитель: RequestsPerMinute в среднем и Burst подряд
func NewRateLimiter(cfg RateLimiterConfig, logger Logger) (*RateLimiter, error) {
	trusted, err := ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	// Адрес забывается не раньше, чем его bucket восполнится полностью
	if refill := time.Duration(cfg.Burst) * time.Minute / time.Duration(cfg.RequestsPerMinute); cfg.IdleTimeout < refill {
		cfg.IdleTimeout = refill
	}

	return &RateLimiter{
		limit:       rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute)),
		burst:       cfg.Burst,
		idleTimeout: cfg.IdleTimeout,
		trusted:     trusted,
		logger:      logger,
		now:         time.Now,
		visitors:    make(map[string]*visitor),
	}, nil
}

// ParseTrustedProxies разбирает список адресов ("10.0.0.1") и подсетей ("10.0.0.0/8")
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTimeout {
		l.evictIdle(now)
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evictIdle удаляет адреса, не делавшие запросов дольше idleTimeout
func (l *RateLimiter) evictIdle(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleTimeout {
			delete(l.visitors, ip)
		}
	}
}

// Size возвращает количество отслеживаемых адресов
func (l *RateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware отвечает 429, если IP исчерпал лимит
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trusted)
		if !l.allow(ip) {
			l.logger.Warn("%s %s - Rate limit exceeded: ip=%s", r.Method, r.URL.Path, ip)
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP определяет адрес клиента. Заголовки прокси учитываются, только если соединение
// пришло от доверенного прокси: X-Forwarded-For просматривается справа налево до первого
// недоверенного адреса
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	if !isTrusted(peer, trusted) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !isTrusted(hop, trusted) {
				return hop
			}
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		if _, err := netip.ParseAddr(ip); err == nil {
			return ip
		}
	}

	return peer
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
