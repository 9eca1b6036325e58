package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/savionray/content-lab/pkg/audit"
	"github.com/savionray/content-lab/pkg/auth"
	"github.com/savionray/content-lab/pkg/contextkeys"
	"github.com/savionray/content-lab/pkg/httputil"
	"github.com/savionray/content-lab/pkg/observability"
	"github.com/savionray/content-lab/pkg/orgs"
	"github.com/savionray/content-lab/pkg/ratelimit"
)

// Guard configures the security requirements of one route
type Guard struct {
	// AllowedMethods is the HTTP method allow-list. Empty allows any method.
	AllowedMethods []string
	// AllowedOrigins is the Origin allow-list. Empty skips the check.
	AllowedOrigins []string
	// MaxRequestSize rejects larger Content-Length values. Zero disables.
	MaxRequestSize int64
	// RateLimit overrides the orchestrator's default per-IP quota when
	// MaxRequests is non-zero.
	RateLimit ratelimit.Config
	// RequireOrg marks the route tenant-scoped: a request without an
	// organization hint is rejected before the handler runs.
	RequireOrg bool
	// RequiredRoles is the organization role allow-list. Empty skips the
	// role check.
	RequiredRoles []auth.OrgRole
}

// Orchestrator composes the security stages around route handlers. It owns
// request-id generation, timing, the single audit write per request, and
// uniform error-to-response translation; stages themselves never write
// responses or audit records.
type Orchestrator struct {
	limiter  *ratelimit.Limiter
	gate     *auth.Gate
	resolver *orgs.Resolver
	auditor  audit.Logger
	log      *observability.Logger
	metrics  *observability.Metrics

	defaultRateLimit ratelimit.Config
	now              func() time.Time
}

// NewOrchestrator creates the pipeline orchestrator
func NewOrchestrator(limiter *ratelimit.Limiter, gate *auth.Gate, resolver *orgs.Resolver, auditor audit.Logger, log *observability.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		limiter:          limiter,
		gate:             gate,
		resolver:         resolver,
		auditor:          auditor,
		log:              log,
		metrics:          metrics,
		defaultRateLimit: ratelimit.DefaultConfig(),
		now:              time.Now,
	}
}

// SetDefaultRateLimit overrides the default per-IP quota applied to guards
// that do not set their own.
func (o *Orchestrator) SetDefaultRateLimit(cfg ratelimit.Config) {
	o.defaultRateLimit = cfg
}

// requestState carries one request through the stages
type requestState struct {
	w         *statusRecorder
	r         *http.Request
	guard     Guard
	start     time.Time
	requestID string
	ip        string
	state     string

	identity *auth.Identity
	sc       *auth.SecurityContext
	rateCfg  ratelimit.Config
	decision ratelimit.Decision
	err      error
}

// stage is one ordered step of the pipeline. state is the machine state the
// request reaches when the step succeeds; any error transitions to REJECTED.
type stage struct {
	state string
	run   func(*Orchestrator, *requestState) error
}

var stages = []stage{
	{"VALIDATED", (*Orchestrator).validateStage},
	{"RATE_CHECKED", (*Orchestrator).rateCheckStage},
	{"AUTHENTICATED", (*Orchestrator).authenticateStage},
	{"CONTEXT_RESOLVED", (*Orchestrator).resolveContextStage},
	{"AUTHORIZED", (*Orchestrator).authorizeStage},
	{"INPUT_VALIDATED", (*Orchestrator).sanitizeStage},
}

// Secure wraps a handler with the full security pipeline
func (o *Orchestrator) Secure(guard Guard, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := o.now()
		requestID := NewRequestID(start)

		ctx := contextkeys.WithRequestID(r.Context(), requestID)
		ctx = contextkeys.WithRequestStartTime(ctx, start)
		ctx = contextkeys.WithLogger(ctx, o.log.WithField("request_id", requestID))

		s := &requestState{
			w:         newStatusRecorder(w),
			r:         r.WithContext(ctx),
			guard:     guard,
			start:     start,
			requestID: requestID,
			ip:        ClientIP(r),
			state:     "RECEIVED",
		}

		defer o.finish(s)

		for _, st := range stages {
			if err := st.run(o, s); err != nil {
				s.err = err
				s.state = "REJECTED"
				o.respondError(s)
				return
			}
			s.state = st.state
		}

		Harden(s.w.Header())
		o.setRateLimitHeaders(s.w.Header(), s)
		s.state = "HANDLED"
		next.ServeHTTP(s.w, s.r)
		s.state = "RESPONDED"
	})
}

// SecureFunc is Secure for plain handler functions
func (o *Orchestrator) SecureFunc(guard Guard, next http.HandlerFunc) http.Handler {
	return o.Secure(guard, next)
}

func (o *Orchestrator) validateStage(s *requestState) error {
	return ValidateRequest(s.r, ValidatorOptions{
		AllowedMethods: s.guard.AllowedMethods,
		MaxRequestSize: s.guard.MaxRequestSize,
		AllowedOrigins: s.guard.AllowedOrigins,
	})
}

func (o *Orchestrator) rateCheckStage(s *requestState) error {
	cfg := s.guard.RateLimit
	if cfg.MaxRequests == 0 {
		cfg = o.defaultRateLimit
	}
	s.rateCfg = cfg

	decision, err := o.limiter.Check(s.r.Context(), "ip:"+s.ip, cfg)
	s.decision = decision
	if err != nil {
		if !decision.Allowed {
			return InternalError(fmt.Errorf("rate limit store unavailable: %w", err))
		}
		// Fail-open: the store is down but the limiter let the request pass
		o.log.WithError(err).Warn("rate limit store error, allowing request")
		return nil
	}

	if !decision.Allowed {
		if o.metrics != nil {
			o.metrics.RateLimitRejections.Inc()
		}
		return RateLimitError("Rate limit exceeded")
	}
	return nil
}

func (o *Orchestrator) authenticateStage(s *requestState) error {
	identity, err := o.gate.Authenticate(s.r)
	if err != nil {
		return AuthenticationError("Authentication required", err)
	}
	s.identity = &identity
	return nil
}

func (o *Orchestrator) resolveContextStage(s *requestState) error {
	if orgs.OrgHint(s.r) == "" && !s.guard.RequireOrg {
		// Route is not tenant-scoped and no hint was supplied: carry an
		// identity-only context with no organization fields.
		s.sc = &auth.SecurityContext{
			UserID:       s.identity.UserID,
			UserEmail:    s.identity.Email,
			IsSuperAdmin: s.identity.IsSuperAdmin,
			UserRole:     s.identity.Role,
		}
	} else {
		sc, err := o.resolver.Resolve(s.r, *s.identity)
		if err != nil {
			if errors.Is(err, orgs.ErrOrgContextRequired) || errors.Is(err, orgs.ErrNotMember) {
				return AuthorizationError(err.Error(), err)
			}
			return InternalError(err)
		}
		s.sc = sc
	}

	s.r = s.r.WithContext(contextkeys.WithSecurityContext(s.r.Context(), s.sc))
	return nil
}

func (o *Orchestrator) authorizeStage(s *requestState) error {
	return Authorize(s.sc, s.guard.RequiredRoles)
}

func (o *Orchestrator) sanitizeStage(s *requestState) error {
	return SanitizeRequest(s.r)
}

// respondError translates a stage error into the JSON error response. Error
// responses intentionally skip the hardener's header set.
func (o *Orchestrator) respondError(s *requestState) {
	status := StatusFor(s.err)

	if status == http.StatusTooManyRequests {
		retryAfter := int(time.Until(s.decision.ResetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		h := s.w.Header()
		h.Set("Retry-After", strconv.Itoa(retryAfter))
		o.setRateLimitHeaders(h, s)
	}

	var perr *Error
	if errors.As(s.err, &perr) && perr.Err != nil {
		o.log.WithFields(map[string]interface{}{
			"request_id": s.requestID,
			"path":       s.r.URL.Path,
			"ip_address": s.ip,
			"status":     status,
		}).WithError(perr.Err).Warn("request rejected")
	}

	httputil.WriteErrorMessage(s.w, status, s.err.Error())
}

func (o *Orchestrator) setRateLimitHeaders(h http.Header, s *requestState) {
	if s.rateCfg.MaxRequests == 0 || s.decision.ResetAt.IsZero() {
		return
	}
	h.Set("X-RateLimit-Limit", strconv.FormatInt(s.rateCfg.MaxRequests, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(s.decision.Remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(s.decision.ResetAt.Unix(), 10))
}

// finish recovers handler panics and writes the single audit record for the
// request. It runs on every exit path.
func (o *Orchestrator) finish(s *requestState) {
	if p := recover(); p != nil {
		s.err = InternalError(fmt.Errorf("panic in handler: %v", p))
		s.state = "REJECTED"
		if !s.w.wroteHeader {
			o.respondError(s)
		} else {
			o.log.WithField("request_id", s.requestID).Errorf("panic after response started: %v", p)
		}
	}

	o.writeAudit(s)
}

func (o *Orchestrator) writeAudit(s *requestState) {
	action := audit.ActionAPIAccess
	success := s.err == nil
	errMsg := ""
	if s.err != nil {
		action = ActionFor(s.err)
		errMsg = s.err.Error()
	}

	status := s.w.status
	if s.err != nil {
		status = StatusFor(s.err)
	}
	latency := o.now().Sub(s.start)

	userID := audit.AnonymousUserID
	email := ""
	if s.identity != nil {
		userID = s.identity.UserID
		email = s.identity.Email
	}
	orgID := audit.NoOrganization
	if s.sc != nil && s.sc.OrganizationID != "" {
		orgID = s.sc.OrganizationID
	}

	event := &audit.Event{
		Timestamp:      o.now().UTC(),
		RequestID:      s.requestID,
		UserID:         userID,
		OrganizationID: orgID,
		UserEmail:      email,
		Action:         action,
		Resource:       s.r.URL.String(),
		Method:         s.r.Method,
		IPAddress:      s.ip,
		UserAgent:      s.r.UserAgent(),
		Success:        success,
		ErrorMessage:   errMsg,
		Metadata: map[string]interface{}{
			"latency_ms":  latency.Milliseconds(),
			"status_code": status,
			"state":       s.state,
		},
	}

	// Audit completeness is a correctness property: a caller disconnecting
	// mid-pipeline must not cancel the write.
	ctx := context.WithoutCancel(s.r.Context())
	if err := o.auditor.Log(ctx, event); err != nil {
		// The sink already has its own fallback; failures here must never
		// become the request's error.
		o.log.WithError(err).Error("audit write failed")
	}

	if o.metrics != nil {
		o.metrics.RequestsTotal.WithLabelValues(string(action), strconv.Itoa(status)).Inc()
		o.metrics.RequestDuration.WithLabelValues(strconv.Itoa(status)).Observe(latency.Seconds())
	}
}

// GetSecurityContext extracts the verified security context from a request.
// It is nil on requests that did not pass through a tenant-scoped guard.
func GetSecurityContext(r *http.Request) *auth.SecurityContext {
	sc, _ := r.Context().Value(contextkeys.SecurityContextKey).(*auth.SecurityContext)
	return sc
}

// statusRecorder captures the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}
