package pipeline

import "net/http"

// ValidatorOptions configures the cheap synchronous request checks that run
// before any I/O. Zero-valued options disable the corresponding check.
type ValidatorOptions struct {
	// AllowedMethods is the HTTP method allow-list. Empty allows any method.
	AllowedMethods []string
	// MaxRequestSize rejects requests whose Content-Length exceeds it.
	// Zero disables the check.
	MaxRequestSize int64
	// AllowedOrigins is the Origin header allow-list. Empty allows any
	// origin; the check only applies when the header is present.
	AllowedOrigins []string
}

// ValidateRequest runs the method, size and origin checks in order and
// returns the first failure. Unconfigured checks are skipped, not failed.
func ValidateRequest(r *http.Request, opts ValidatorOptions) error {
	if len(opts.AllowedMethods) > 0 {
		allowed := false
		for _, m := range opts.AllowedMethods {
			if r.Method == m {
				allowed = true
				break
			}
		}
		if !allowed {
			return ValidationError("Method not allowed")
		}
	}

	if opts.MaxRequestSize > 0 && r.ContentLength > opts.MaxRequestSize {
		return ValidationError("Request too large")
	}

	if len(opts.AllowedOrigins) > 0 {
		if origin := r.Header.Get("Origin"); origin != "" {
			allowed := false
			for _, o := range opts.AllowedOrigins {
				if origin == o {
					allowed = true
					break
				}
			}
			if !allowed {
				return ValidationError("Invalid origin")
			}
		}
	}

	return nil
}
